package verifier

import (
	"fmt"
	"math/big"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/splitvote/mixnet-election/proofserver"
	"github.com/splitvote/mixnet-election/sbb"
	"github.com/splitvote/mixnet-election/tablet"
)

func runElection(c *qt.C, votes []int64, rows, twoM int, M *big.Int) (*sbb.Contents, error) {
	path := filepath.Join(c.Mkdir(), "sbb.txt")
	w, err := sbb.NewWriter(path)
	c.Assert(err, qt.IsNil)

	ps, err := proofserver.New(rows, M, twoM, w)
	c.Assert(err, qt.IsNil)

	for i, v := range votes {
		tb, err := tablet.New(fmt.Sprintf("tablet-%d", i), rows, M, ps, w)
		c.Assert(err, qt.IsNil)
		_, _, err = tb.SendVote(big.NewInt(v))
		c.Assert(err, qt.IsNil)
	}
	c.Assert(w.CloseBallotReceipts(), qt.IsNil)
	c.Assert(w.CloseOriginalOrderCommitments(), qt.IsNil)

	c.Assert(ps.MixVotes(), qt.IsNil)

	proofRounds := make([]int, 0, twoM/2)
	outcomeRounds := make([]int, 0, twoM/2)
	for i := 0; i < twoM; i++ {
		if i%2 == 0 {
			proofRounds = append(proofRounds, i)
		} else {
			outcomeRounds = append(outcomeRounds, i)
		}
	}

	_, err = ps.PublishConsistencyProof(proofRounds)
	c.Assert(err, qt.IsNil)
	_, err = ps.PublishElectionOutcome(outcomeRounds)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Close(), qt.IsNil)

	return sbb.Read(path, len(votes), twoM)
}

func TestVerifyUnanimous(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(5)
	rows := 3
	twoM := 4
	votes := []int64{2, 2, 2}

	contents, err := runElection(c, votes, rows, twoM, M)
	c.Assert(err, qt.IsNil)

	res, err := Verify(contents, M, rows)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Tally["2"], qt.Equals, 3)
	c.Assert(res.Winner, qt.DeepEquals, []string{"2"})
}

func TestVerifySingleVoter(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(3)
	rows := 3
	twoM := 2
	votes := []int64{1}

	contents, err := runElection(c, votes, rows, twoM, M)
	c.Assert(err, qt.IsNil)

	res, err := Verify(contents, M, rows)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Tally["1"], qt.Equals, 1)
}

func TestVerifyTie(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(5)
	rows := 3
	twoM := 4
	votes := []int64{0, 1, 0, 1}

	contents, err := runElection(c, votes, rows, twoM, M)
	c.Assert(err, qt.IsNil)

	res, err := Verify(contents, M, rows)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Tally["0"], qt.Equals, 2)
	c.Assert(res.Tally["1"], qt.Equals, 2)
	c.Assert(len(res.Winner), qt.Equals, 2)
}

// TestVerifyTamperedInitialCommitment mutates a posted pre-mix
// commitment after the election has closed, simulating a bulletin
// board tamper. The opened consistency-proof value still matches the
// original vote, so it no longer opens the (now different) posted
// commitment. Only the side (u or v) the proof opens for a vote is
// re-checked, so the test tampers with that side.
func TestVerifyTamperedInitialCommitment(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(5)
	rows := 3
	twoM := 4
	votes := []int64{2, 2, 2}

	contents, err := runElection(c, votes, rows, twoM, M)
	c.Assert(err, qt.IsNil)

	var proofRound int
	for round := range contents.ConsistencyProof {
		proofRound = round
		break
	}
	com := &contents.OriginalOrderCommitments[0][0]
	if contents.ConsistencyProof[proofRound][0][0].Side == "u" {
		com.ComU = new(big.Int).Add(com.ComU, big.NewInt(1))
	} else {
		com.ComV = new(big.Int).Add(com.ComV, big.NewInt(1))
	}

	_, err = Verify(contents, M, rows)
	c.Assert(err, qt.ErrorMatches, ".*InitialCommitmentMismatch.*")
}

// TestVerifyTamperedOutcome mutates one opened outcome share after the
// election has closed: the opening no longer matches the posted
// commitment it was supposed to open.
func TestVerifyTamperedOutcome(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(5)
	rows := 3
	twoM := 4
	votes := []int64{2, 2, 2}

	contents, err := runElection(c, votes, rows, twoM, M)
	c.Assert(err, qt.IsNil)

	var outcomeRound int
	for round := range contents.ElectionOutcomes {
		outcomeRound = round
		break
	}
	contents.ElectionOutcomes[outcomeRound][0][0].U = new(big.Int).Add(
		contents.ElectionOutcomes[outcomeRound][0][0].U, big.NewInt(1))

	_, err = Verify(contents, M, rows)
	c.Assert(err, qt.ErrorMatches, ".*OutcomeCommitmentMismatch.*")
}

// TestVerifyCrossListDisagreement splices a whole outcome round (and
// its matching posted commitments) from a second, differently-voted
// election into the first's transcript. Every individual opening still
// matches its own posted commitment, so only the cross-round tally
// comparison catches the disagreement.
func TestVerifyCrossListDisagreement(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(5)
	rows := 3
	twoM := 4

	contentsA, err := runElection(c, []int64{2, 2, 2}, rows, twoM, M)
	c.Assert(err, qt.IsNil)
	contentsB, err := runElection(c, []int64{1, 1, 1}, rows, twoM, M)
	c.Assert(err, qt.IsNil)

	var roundA int
	for round := range contentsA.ElectionOutcomes {
		roundA = round
		break
	}
	var roundB int
	for round := range contentsB.ElectionOutcomes {
		roundB = round
		break
	}

	contentsA.ElectionOutcomes[roundA] = contentsB.ElectionOutcomes[roundB]
	contentsA.VoteLists[roundA] = contentsB.VoteLists[roundB]

	_, err = Verify(contentsA, M, rows)
	c.Assert(err, qt.ErrorMatches, ".*TallyDisagreement.*")
}
