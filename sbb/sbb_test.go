package sbb

import (
	"math/big"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/splitvote/mixnet-election/protocol"
)

func TestWriteReadRoundTrip(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "sbb.txt")

	w, err := NewWriter(path)
	c.Assert(err, qt.IsNil)

	bid := []byte{7}
	c.Assert(w.AppendBallotReceipt(bid, "deadbeef"), qt.IsNil)
	c.Assert(w.CloseBallotReceipts(), qt.IsNil)

	com := protocol.ComSV{ComU: big.NewInt(1), ComV: big.NewInt(2)}
	c.Assert(w.AppendOriginalOrderCommitment(0, com), qt.IsNil)
	c.Assert(w.CloseOriginalOrderCommitments(), qt.IsNil)

	c.Assert(w.StartMixnetVoteCommitmentList(), qt.IsNil)
	round := []protocol.ComT{{com}}
	c.Assert(w.AppendMixnetVoteCommitmentList(round), qt.IsNil)
	c.Assert(w.AppendMixnetVoteCommitmentList(round), qt.IsNil)
	c.Assert(w.CloseMixnetVoteCommitmentList(), qt.IsNil)

	tv := [][][]protocol.TValuePair{{{{TU: big.NewInt(0), TV: big.NewInt(0)}}}}
	c.Assert(w.WriteTValueCommitmentList(tv), qt.IsNil)

	proof := map[int]protocol.ConsistencyProofRound{0: {{{Side: "u"}}}}
	c.Assert(w.WriteConsistencyProof(proof), qt.IsNil)

	c.Assert(w.StartElectionOutcome(), qt.IsNil)
	svrs := [][]protocol.OpenedSVR{{{K1: big.NewInt(1), K2: big.NewInt(2), U: big.NewInt(3), V: big.NewInt(4)}}}
	c.Assert(w.AppendElectionOutcome(0, svrs), qt.IsNil)
	c.Assert(w.CloseElectionOutcome(), qt.IsNil)

	c.Assert(w.Close(), qt.IsNil)

	contents, err := Read(path, 1, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(contents.BallotReceipts["7"], qt.Equals, "deadbeef")
	c.Assert(len(contents.OriginalOrderCommitments), qt.Equals, 1)
	c.Assert(contents.OriginalOrderCommitments[0][0].ComU.Int64(), qt.Equals, int64(1))
	c.Assert(len(contents.VoteLists), qt.Equals, 2)
	c.Assert(len(contents.ConsistencyProof), qt.Equals, 1)
	c.Assert(len(contents.ElectionOutcomes), qt.Equals, 1)
}

func TestReadRejectsWrongReceiptCount(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "sbb.txt")

	w, err := NewWriter(path)
	c.Assert(err, qt.IsNil)
	c.Assert(w.AppendBallotReceipt([]byte{1}, "x"), qt.IsNil)
	c.Assert(w.CloseBallotReceipts(), qt.IsNil)
	c.Assert(w.Close(), qt.IsNil)

	_, err = Read(path, 2, 2)
	c.Assert(err, qt.IsNotNil)
}
