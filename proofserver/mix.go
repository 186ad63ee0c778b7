package proofserver

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/splitvote/mixnet-election/crypto"
	"github.com/splitvote/mixnet-election/protocol"
	"github.com/splitvote/mixnet-election/splitvalue"
	"github.com/splitvote/mixnet-election/util"
)

// MixVotes runs the 2m independent mixing rounds over every row's
// incoming votes, posting each round's commitment grid to the bulletin
// board as it completes, then posts the t-value grid once all rounds
// are done. It must be called exactly once, after every tablet has
// emitted all of its rows.
func (s *Server) MixVotes() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mixed {
		return fmt.Errorf("proofserver: MixVotes already run")
	}

	n := len(s.incoming[0])
	for r, msgs := range s.incoming {
		if len(msgs) != n {
			return protocol.Fail(protocol.UnequalRowCardinality,
				fmt.Errorf("row %d has %d votes, row 0 has %d", r, len(msgs), n)).WithRow(r)
		}
	}
	s.n = n

	s.initialSV = make([][]splitvalue.SVR, s.rows)
	for r := range s.initialSV {
		s.initialSV[r] = make([]splitvalue.SVR, n)
	}
	s.permutationArrays = make([][][]int, s.twoM)
	s.commitmentArrays = make([][][]splitvalue.SVR, s.twoM)
	s.unmixedCommitmentArrays = make([][][]splitvalue.SVR, s.twoM)

	if err := s.board.StartMixnetVoteCommitmentList(); err != nil {
		return fmt.Errorf("proofserver: open mixnet commitment section: %w", err)
	}

	for round := 0; round < s.twoM; round++ {
		cur, err := s.decryptRound(round)
		if err != nil {
			return err
		}

		perms := make([][]int, s.rows)
		for c := 0; c < s.rows; c++ {
			pi := util.Permutation(n)
			perms[c] = pi

			newVals := make([][]*big.Int, s.rows)
			for r := 0; r < s.rows; r++ {
				newVals[r] = make([]*big.Int, n)
			}
			for j := 0; j < n; j++ {
				offsets := splitvalue.GetMultiple(big.NewInt(0), s.rows, s.m)
				for r := 0; r < s.rows; r++ {
					newVals[r][j] = new(big.Int).Mod(new(big.Int).Add(cur[r][j], offsets[r]), s.m)
				}
			}
			for r := 0; r < s.rows; r++ {
				cur[r] = applyPermutation(newVals[r], pi)
			}
		}
		s.permutationArrays[round] = perms

		finalSVR := make([][]splitvalue.SVR, s.rows)
		for r := 0; r < s.rows; r++ {
			finalSVR[r] = make([]splitvalue.SVR, n)
			for j := 0; j < n; j++ {
				finalSVR[r][j] = splitvalue.GetSVR(cur[r][j], s.m)
			}
		}
		s.commitmentArrays[round] = finalSVR

		voteComs := make([]protocol.ComT, n)
		for j := 0; j < n; j++ {
			voteComs[j] = make(protocol.ComT, s.rows)
			for r := 0; r < s.rows; r++ {
				voteComs[j][r] = protocol.ComSV{
					ComU: crypto.BytesToBigInt(finalSVR[r][j].ComU()),
					ComV: crypto.BytesToBigInt(finalSVR[r][j].ComV()),
				}
			}
		}
		if err := s.board.AppendMixnetVoteCommitmentList(voteComs); err != nil {
			return fmt.Errorf("proofserver: post round %d commitments: %w", round, err)
		}

		s.unmixedCommitmentArrays[round] = s.unmixRound(round)
		log.Debug().Int("round", round).Msg("mix round complete")
	}

	if err := s.board.CloseMixnetVoteCommitmentList(); err != nil {
		return fmt.Errorf("proofserver: close mixnet commitment section: %w", err)
	}

	if err := s.postTValues(); err != nil {
		return err
	}

	s.selectUV = make([]int, n)
	for j := range s.selectUV {
		s.selectUV[j] = util.RandomInt(0, 2)
	}

	s.mixed = true
	return nil
}

// decryptRound re-decrypts every incoming message for this round (the
// proof server holds only ciphertexts; each independent round starts
// from the same encrypted messages) and returns the per-row, per-vote
// scalar values to be obfuscated and shuffled. On round 0 it also
// records the plaintext SVRs into initialSV, shared across all rounds.
func (s *Server) decryptRound(round int) ([][]*big.Int, error) {
	n := s.n
	cur := make([][]*big.Int, s.rows)
	for r := 0; r < s.rows; r++ {
		cur[r] = make([]*big.Int, n)
		for j, m := range s.incoming[r] {
			key, ok := s.tablets[m.TabletID]
			if !ok {
				return nil, protocol.Fail(protocol.CommitmentVerificationFailure,
					fmt.Errorf("no registered key for tablet %s", m.TabletID)).WithRound(round).WithVote(j).WithRow(r)
			}
			k1, err := key.Decrypt(m.Enc.K1)
			if err != nil {
				return nil, protocol.Fail(protocol.CommitmentVerificationFailure, err).WithRound(round).WithVote(j).WithRow(r)
			}
			k2, err := key.Decrypt(m.Enc.K2)
			if err != nil {
				return nil, protocol.Fail(protocol.CommitmentVerificationFailure, err).WithRound(round).WithVote(j).WithRow(r)
			}
			uBytes, err := key.Decrypt(m.Enc.U)
			if err != nil {
				return nil, protocol.Fail(protocol.CommitmentVerificationFailure, err).WithRound(round).WithVote(j).WithRow(r)
			}
			vBytes, err := key.Decrypt(m.Enc.V)
			if err != nil {
				return nil, protocol.Fail(protocol.CommitmentVerificationFailure, err).WithRound(round).WithVote(j).WithRow(r)
			}

			if !crypto.COMEqual(k1, uBytes, crypto.BigIntToBytes(m.ComU)) {
				return nil, protocol.Fail(protocol.CommitmentVerificationFailure,
					fmt.Errorf("com_u mismatch for tablet %s", m.TabletID)).WithRound(round).WithVote(j).WithRow(r).WithSide("u")
			}
			if !crypto.COMEqual(k2, vBytes, crypto.BigIntToBytes(m.ComV)) {
				return nil, protocol.Fail(protocol.CommitmentVerificationFailure,
					fmt.Errorf("com_v mismatch for tablet %s", m.TabletID)).WithRound(round).WithVote(j).WithRow(r).WithSide("v")
			}

			u := crypto.BytesToBigInt(uBytes)
			v := crypto.BytesToBigInt(vBytes)
			cur[r][j] = splitvalue.Val(u, v, s.m)

			if round == 0 {
				s.initialSV[r][j] = splitvalue.SVR{K1: k1, K2: k2, U: u, V: v}
			}
		}
	}
	return cur, nil
}

// unmixRound replays this round's permutation sequence in reverse,
// restoring the final SVR grid to pre-mix (cast-order) indexing.
func (s *Server) unmixRound(round int) [][]splitvalue.SVR {
	perms := s.permutationArrays[round]
	unmixed := make([][]splitvalue.SVR, s.rows)
	for r := 0; r < s.rows; r++ {
		arr := append([]splitvalue.SVR(nil), s.commitmentArrays[round][r]...)
		for c := s.rows - 1; c >= 0; c-- {
			arr = applyInversePermutation(arr, perms[c])
		}
		unmixed[r] = arr
	}
	return unmixed
}

// postTValues computes and posts the [round][row][vote] t-value grid:
// tu = (unmixed.u - initial.u) mod M, tv symmetric. Must be posted
// before the random challenge is drawn.
func (s *Server) postTValues() error {
	grid := make([][][]protocol.TValuePair, s.twoM)
	for round := 0; round < s.twoM; round++ {
		grid[round] = make([][]protocol.TValuePair, s.rows)
		for r := 0; r < s.rows; r++ {
			grid[round][r] = make([]protocol.TValuePair, s.n)
			for j := 0; j < s.n; j++ {
				initial := s.initialSV[r][j]
				final := s.unmixedCommitmentArrays[round][r][j]
				tu := new(big.Int).Mod(new(big.Int).Sub(final.U, initial.U), s.m)
				tv := new(big.Int).Mod(new(big.Int).Sub(final.V, initial.V), s.m)
				grid[round][r][j] = protocol.TValuePair{TU: tu, TV: tv}
			}
		}
	}
	if err := s.board.WriteTValueCommitmentList(grid); err != nil {
		return fmt.Errorf("proofserver: post t-values: %w", err)
	}
	return nil
}
