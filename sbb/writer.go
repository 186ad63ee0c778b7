package sbb

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sync"

	"github.com/splitvote/mixnet-election/crypto"
	"github.com/splitvote/mixnet-election/protocol"
)

// receiptLine and commitmentLine mirror the JSON shapes posted to the
// ballot_receipts and original_order_commitments sections.
type receiptLine struct {
	Bid     *big.Int `json:"bid"`
	Receipt string   `json:"receipt"`
}

type commitmentLine struct {
	Row  int      `json:"row"`
	ComU *big.Int `json:"com_u"`
	ComV *big.Int `json:"com_v"`
}

type outcomeLine struct {
	ListIdx int                    `json:"list_idx"`
	SVRs    [][]protocol.OpenedSVR `json:"svrs"`
}

// sectionState records whether a section's header line has been written
// (it is written lazily on the section's first append) and whether its
// end_section line has been written. The Close* methods do not consult
// closed: each call writes another end_section line.
type sectionState struct {
	opened bool
	closed bool
}

// Writer is the append-only producer side of the bulletin board. Every
// write is flushed immediately so a concurrent reader observes progress
// without waiting for the writer to close.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	recs sectionState
	coms sectionState
	mix  sectionState
	out  sectionState
}

// NewWriter creates (truncating) the transcript file at path.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sbb: create transcript: %w", err)
	}
	return &Writer{f: f}, nil
}

func (w *Writer) writeLine(s string) error {
	if _, err := fmt.Fprintln(w.f, s); err != nil {
		return fmt.Errorf("sbb: write: %w", err)
	}
	return w.f.Sync()
}

func (w *Writer) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sbb: marshal: %w", err)
	}
	return w.writeLine(string(b))
}

// AppendBallotReceipt posts one voter's receipt. bid is the ballot id
// interpreted as a little-endian minimal-length big integer.
func (w *Writer) AppendBallotReceipt(bid []byte, receiptHash string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.recs.opened {
		if err := w.writeLine(HeadingBallotReceipts); err != nil {
			return err
		}
		w.recs.opened = true
	}
	return w.writeJSON(receiptLine{Bid: crypto.BytesToBigInt(bid), Receipt: receiptHash})
}

// CloseBallotReceipts terminates the ballot_receipts section.
func (w *Writer) CloseBallotReceipts() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.recs.opened {
		if err := w.writeLine(HeadingBallotReceipts); err != nil {
			return err
		}
		w.recs.opened = true
	}
	w.recs.closed = true
	return w.writeLine(HeadingEndSection)
}

// AppendOriginalOrderCommitment posts one row's pre-mix commitment pair
// for a single cast ballot.
func (w *Writer) AppendOriginalOrderCommitment(row int, com protocol.ComSV) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.coms.opened {
		if err := w.writeLine(HeadingOriginalOrderCommitments); err != nil {
			return err
		}
		w.coms.opened = true
	}
	return w.writeJSON(commitmentLine{Row: row, ComU: com.ComU, ComV: com.ComV})
}

// CloseOriginalOrderCommitments terminates the original_order_commitments
// section.
func (w *Writer) CloseOriginalOrderCommitments() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.coms.opened {
		if err := w.writeLine(HeadingOriginalOrderCommitments); err != nil {
			return err
		}
		w.coms.opened = true
	}
	w.coms.closed = true
	return w.writeLine(HeadingEndSection)
}

// StartMixnetVoteCommitmentList opens the mixnet_vote_commitment_list
// section. Called once before the first of the 2m rounds is posted.
func (w *Writer) StartMixnetVoteCommitmentList() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mix.opened {
		return nil
	}
	w.mix.opened = true
	return w.writeLine(HeadingMixnetVoteCommitmentList)
}

// AppendMixnetVoteCommitmentList posts one round's full commitment
// grid: n ComT values, each a list of rows of {com_u, com_v}.
func (w *Writer) AppendMixnetVoteCommitmentList(votes []protocol.ComT) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeJSON(votes)
}

// CloseMixnetVoteCommitmentList terminates the section.
func (w *Writer) CloseMixnetVoteCommitmentList() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mix.closed = true
	return w.writeLine(HeadingEndSection)
}

// WriteTValueCommitmentList posts the complete [round][row][vote]
// t-value grid as a single section record. Must be called after all 2m
// rounds are mixed and before the random challenge is drawn.
func (w *Writer) WriteTValueCommitmentList(grid [][][]protocol.TValuePair) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writeLine(HeadingTValueCommitmentList); err != nil {
		return err
	}
	if err := w.writeJSON(grid); err != nil {
		return err
	}
	return w.writeLine(HeadingEndSection)
}

// WriteConsistencyProof posts the m-entry {round_idx: proof} consistency
// proof as a single section record.
func (w *Writer) WriteConsistencyProof(proof map[int]protocol.ConsistencyProofRound) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writeLine(HeadingConsistencyProof); err != nil {
		return err
	}
	if err := w.writeJSON(proof); err != nil {
		return err
	}
	return w.writeLine(HeadingEndSection)
}

// StartElectionOutcome opens the election_outcome section.
func (w *Writer) StartElectionOutcome() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.out.opened {
		return nil
	}
	w.out.opened = true
	return w.writeLine(HeadingElectionOutcome)
}

// AppendElectionOutcome posts one outcome round's fully opened n x rows
// SVR grid.
func (w *Writer) AppendElectionOutcome(listIdx int, svrs [][]protocol.OpenedSVR) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeJSON(outcomeLine{ListIdx: listIdx, SVRs: svrs})
}

// CloseElectionOutcome terminates the election_outcome section. The SBB
// must not be closed before this returns.
func (w *Writer) CloseElectionOutcome() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.out.closed = true
	return w.writeLine(HeadingEndSection)
}

// Close releases the transcript file. Safe to call only after the
// election_outcome section has been closed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}
