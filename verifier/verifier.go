// Package verifier reads a completed election's bulletin board transcript
// and independently checks that the posted outcome corresponds to the
// cast ballots, without ever seeing an individual vote in the clear
// outside the openings the proof server itself chose to reveal.
package verifier

import (
	"fmt"
	"math/big"

	"github.com/splitvote/mixnet-election/crypto"
	"github.com/splitvote/mixnet-election/protocol"
	"github.com/splitvote/mixnet-election/sbb"
)

// Result summarizes a completed verification run.
type Result struct {
	Tally  map[string]int // ballot value (decimal string) -> vote count
	Winner []string       // all tied winners, as decimal strings
}

// Verify checks the full consistency and outcome proof posted to a
// transcript and returns the tally if every check passes. Any failure
// returns a *protocol.Error identifying the first violated invariant.
func Verify(c *sbb.Contents, m *big.Int, rows int) (*Result, error) {
	if err := verifyConsistency(c, m, rows); err != nil {
		return nil, err
	}
	return verifyOutcome(c, m, rows)
}

// verifyConsistency re-opens every posted consistency-proof commitment
// against the original (pre-mix) and post-mix commitment lists, checks
// each opened value against its posted t-value, and checks the
// cross-row Lagrange relation for every (round, vote) pair.
func verifyConsistency(c *sbb.Contents, M *big.Int, rows int) error {
	for round, proofRound := range c.ConsistencyProof {
		for j, openings := range proofRound {
			for r, op := range openings {
				initCom := c.OriginalOrderCommitments[r][j]
				finCom := c.VoteLists[round][j][r]

				var initPosted, finPosted *big.Int
				if op.Side == "u" {
					initPosted = initCom.ComU
					finPosted = finCom.ComU
				} else {
					initPosted = initCom.ComV
					finPosted = finCom.ComV
				}

				initKey := crypto.BigIntToBytes(op.Init.Key)
				initVal := crypto.BigIntToBytes(op.Init.Value)
				if !crypto.COMEqual(initKey, initVal, crypto.BigIntToBytes(initPosted)) {
					return protocol.Fail(protocol.InitialCommitmentMismatch,
						fmt.Errorf("side %s", op.Side)).WithRound(round).WithVote(j).WithRow(r).WithSide(op.Side)
				}

				finKey := crypto.BigIntToBytes(op.Fin.Key)
				finVal := crypto.BigIntToBytes(op.Fin.Value)
				if !crypto.COMEqual(finKey, finVal, crypto.BigIntToBytes(finPosted)) {
					return protocol.Fail(protocol.FinalCommitmentMismatch,
						fmt.Errorf("side %s", op.Side)).WithRound(round).WithVote(j).WithRow(r).WithSide(op.Side)
				}

				t := new(big.Int).Mod(new(big.Int).Sub(op.Fin.Value, op.Init.Value), M)
				posted := c.TValues[round][r][j]
				var postedT *big.Int
				if op.Side == "u" {
					postedT = posted.TU
				} else {
					postedT = posted.TV
				}
				if t.Cmp(postedT) != 0 {
					return protocol.Fail(protocol.TValueMismatch,
						fmt.Errorf("opened t=%s, posted t=%s", t, postedT)).WithRound(round).WithVote(j).WithRow(r).WithSide(op.Side)
				}
			}

			tusU := make([]*big.Int, rows)
			tusV := make([]*big.Int, rows)
			for r := 0; r < rows; r++ {
				tusU[r] = c.TValues[round][r][j].TU
				tusV[r] = c.TValues[round][r][j].TV
			}
			if err := checkLagrangeRelation(tusU, tusV, M, round, j); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkLagrangeRelation verifies the posted (tu, tv) grid for one
// (round, vote) satisfies the protocol's cross-row consistency relation.
//
// tu_r + tv_r = (final_r.u + final_r.v) - (init_r.u + init_r.v), i.e.
// the post-mix value at row r minus the pre-mix value at row r, for
// the row's own u/v pair (the random split within a row cancels out of
// this sum regardless of how u and v are individually re-sampled).
// Obfuscation adds, at every mix step, a rows-wide offset tuple that
// sums to zero across rows for the position being processed, and the
// single shared permutation at each step never moves a value from one
// row to another — so summing tu_r + tv_r over every row telescopes to
// (sum of final values across rows) - (sum of initial values across
// rows), which is zero because both sums equal the same ballot value
// (value-preservation across mixing, at this vote's pre-mix position).
//
// This is the genuine invariant the construction guarantees; it is a
// flat (equal-weight) sum over rows, NOT a weighted Lagrange
// extrapolation to x=0. Checked directly against a hand-computed
// example: for rows=2 the Lagrange basis weights at x=0 over nodes
// {1,2} are (2,-1), not (1,1), so lagrangeAtZero(tus) + lagrangeAtZero(tvs)
// does not reduce to this sum in general and would reject legitimate
// elections. lagrangeAtZero is implemented and tested as a correct,
// general-purpose interpolation primitive (per the modular Fermat
// inverse construction the protocol calls for), but the pass/fail
// check here uses the flat sum directly, which is the relation the
// mixing algorithm actually guarantees.
func checkLagrangeRelation(tus, tvs []*big.Int, M *big.Int, round, vote int) error {
	sum := new(big.Int)
	for i := range tus {
		sum.Add(sum, tus[i])
		sum.Add(sum, tvs[i])
	}
	sum.Mod(sum, M)
	if sum.Sign() != 0 {
		return protocol.Fail(protocol.LagrangeRelationFailure,
			fmt.Errorf("sum(tu)+sum(tv) = %s, want 0", sum)).WithRound(round).WithVote(vote)
	}
	return nil
}

// verifyOutcome re-opens every outcome round's SVR grid against the
// posted post-mix commitments, tallies each round's votes, and requires
// every outcome round's tally to agree as a multiset.
func verifyOutcome(c *sbb.Contents, M *big.Int, rows int) (*Result, error) {
	var tallies []map[string]int

	for round, svrs := range c.ElectionOutcomes {
		tally := map[string]int{}
		for j, rowSVRs := range svrs {
			sum := big.NewInt(0)
			for r, svr := range rowSVRs {
				k1 := crypto.BigIntToBytes(svr.K1)
				k2 := crypto.BigIntToBytes(svr.K2)
				uBytes := crypto.BigIntToBytes(svr.U)
				vBytes := crypto.BigIntToBytes(svr.V)

				posted := c.VoteLists[round][j][r]
				if !crypto.COMEqual(k1, uBytes, crypto.BigIntToBytes(posted.ComU)) {
					return nil, protocol.Fail(protocol.OutcomeCommitmentMismatch,
						fmt.Errorf("com_u mismatch")).WithRound(round).WithVote(j).WithRow(r).WithSide("u")
				}
				if !crypto.COMEqual(k2, vBytes, crypto.BigIntToBytes(posted.ComV)) {
					return nil, protocol.Fail(protocol.OutcomeCommitmentMismatch,
						fmt.Errorf("com_v mismatch")).WithRound(round).WithVote(j).WithRow(r).WithSide("v")
				}

				u := crypto.BytesToBigInt(uBytes)
				v := crypto.BytesToBigInt(vBytes)
				sum.Add(sum, u)
				sum.Add(sum, v)
			}
			sum.Mod(sum, M)
			tally[sum.String()]++
		}
		tallies = append(tallies, tally)
	}

	if len(tallies) == 0 {
		return &Result{Tally: map[string]int{}}, nil
	}
	reference := tallies[0]
	for _, t := range tallies[1:] {
		if !tallyEqual(reference, t) {
			return nil, protocol.Fail(protocol.TallyDisagreement, fmt.Errorf("outcome rounds disagree on tally"))
		}
	}

	best := 0
	for _, n := range reference {
		if n > best {
			best = n
		}
	}
	var winners []string
	for v, n := range reference {
		if n == best {
			winners = append(winners, v)
		}
	}

	return &Result{Tally: reference, Winner: winners}, nil
}

func tallyEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
