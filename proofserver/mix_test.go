package proofserver

import (
	"fmt"
	"math/big"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/splitvote/mixnet-election/sbb"
	"github.com/splitvote/mixnet-election/splitvalue"
	"github.com/splitvote/mixnet-election/tablet"
)

func TestMixPreservesBallotValues(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(101)
	rows := 3
	twoM := 4
	votes := []int64{2, 7, 11}

	path := filepath.Join(t.TempDir(), "sbb.txt")
	w, err := sbb.NewWriter(path)
	c.Assert(err, qt.IsNil)

	ps, err := New(rows, M, twoM, w)
	c.Assert(err, qt.IsNil)

	bids := make([][]byte, len(votes))
	for i, v := range votes {
		tb, err := tablet.New(fmt.Sprintf("tablet-%d", i), rows, M, ps, w)
		c.Assert(err, qt.IsNil)
		bid, _, err := tb.SendVote(big.NewInt(v))
		c.Assert(err, qt.IsNil)
		bids[i] = bid
	}
	c.Assert(w.CloseBallotReceipts(), qt.IsNil)
	c.Assert(w.CloseOriginalOrderCommitments(), qt.IsNil)

	c.Assert(ps.MixVotes(), qt.IsNil)

	c.Assert(len(ps.commitmentArrays), qt.Equals, twoM)
	for round := 0; round < twoM; round++ {
		c.Assert(len(ps.permutationArrays[round]), qt.Equals, rows)
		for c2 := 0; c2 < rows; c2++ {
			c.Assert(len(ps.permutationArrays[round][c2]), qt.Equals, len(votes))
		}
	}

	// Unmixed values, summed across rows, must reproduce the cast votes
	// at each pre-mix position, for every round.
	for round := 0; round < twoM; round++ {
		for j, want := range votes {
			sum := big.NewInt(0)
			for r := 0; r < rows; r++ {
				svr := ps.unmixedCommitmentArrays[round][r][j]
				sum.Add(sum, splitvalue.Val(svr.U, svr.V, M))
			}
			sum.Mod(sum, M)
			c.Assert(sum.Int64(), qt.Equals, want)
		}
	}
}
