// Package election orchestrates one simulated election end to end: cast
// ballots, mix, draw the random challenge, publish proofs, and verify.
package election

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/splitvote/mixnet-election/config"
	"github.com/splitvote/mixnet-election/crypto"
	"github.com/splitvote/mixnet-election/protocol"
	"github.com/splitvote/mixnet-election/proofserver"
	"github.com/splitvote/mixnet-election/sbb"
	"github.com/splitvote/mixnet-election/storage"
	"github.com/splitvote/mixnet-election/tablet"
	"github.com/splitvote/mixnet-election/util"
	"github.com/splitvote/mixnet-election/verifier"
)

// Summary is the human-readable result of one election run.
type Summary struct {
	Receipts []VoterReceipt
	Result   *verifier.Result
}

// VoterReceipt records one voter's cast ballot id and receipt hash,
// plus whether their own post-voting self-verification passed.
type VoterReceipt struct {
	TabletID string
	Bid      []byte
	Hash     string
	Verified bool
}

// Choices supplies the plaintext vote value cast by each simulated
// voter, in tablet order.
type Choices []*big.Int

// Run executes the full 8-step protocol: cast votes, close the
// pre-mix sections, mix, draw the random challenge, publish the
// consistency and outcome proofs, close the SBB, then re-open it as a
// verifier would and check the result.
func Run(cfg config.Config, choices Choices) (*Summary, error) {
	if len(choices) != cfg.Params.NumVoters {
		return nil, fmt.Errorf("election: got %d choices, want %d voters", len(choices), cfg.Params.NumVoters)
	}

	board, err := sbb.NewWriter(cfg.SBBPath)
	if err != nil {
		return nil, fmt.Errorf("election: open SBB: %w", err)
	}

	ps, err := proofserver.New(cfg.Params.Rows, cfg.Params.M, cfg.Params.TwoM, board)
	if err != nil {
		_ = board.Close()
		return nil, fmt.Errorf("election: start proof server: %w", err)
	}

	// The storage index lives only for this election's run: it gives the
	// driver O(1) lookups of receipts and tablet registrations without
	// re-scanning the SBB, and is discarded once the run completes,
	// never persisted across elections.
	storeDir, err := os.MkdirTemp("", "mixnet-election-storage-*")
	if err != nil {
		_ = board.Close()
		return nil, fmt.Errorf("election: create storage dir: %w", err)
	}
	defer os.RemoveAll(storeDir)

	storeDB, err := metadb.New(db.TypePebble, filepath.Join(storeDir, "db"))
	if err != nil {
		_ = board.Close()
		return nil, fmt.Errorf("election: open storage: %w", err)
	}
	store := storage.New(storeDB)
	defer store.Close()

	// Step 1-3: tablets register, split, commit, encrypt, and cast.
	receipts := make([]VoterReceipt, len(choices))
	for i, x := range choices {
		tabletID := fmt.Sprintf("tablet-%d", i)
		tb, err := tablet.New(tabletID, cfg.Params.Rows, cfg.Params.M, ps, board)
		if err != nil {
			_ = board.Close()
			return nil, fmt.Errorf("election: create %s: %w", tabletID, err)
		}
		if err := store.PutTablet(&storage.TabletRecord{TabletID: tabletID, KeyFingerprint: tb.KeyFingerprint()}); err != nil {
			_ = board.Close()
			return nil, fmt.Errorf("election: index %s: %w", tabletID, err)
		}
		bid, hash, err := tb.SendVote(x)
		if err != nil {
			_ = board.Close()
			return nil, fmt.Errorf("election: cast vote on %s: %w", tabletID, err)
		}
		if err := store.PutReceipt(&storage.ReceiptRecord{Bid: bid, ReceiptHash: hash, TabletID: tabletID}); err != nil {
			_ = board.Close()
			return nil, fmt.Errorf("election: index receipt for %s: %w", tabletID, err)
		}
		receipts[i] = VoterReceipt{TabletID: tabletID, Bid: bid, Hash: hash}
		log.Info().Str("tablet", tabletID).Str("receipt", hash).Msg("ballot cast")
	}

	// Step 4: close the pre-mix sections.
	if err := board.CloseBallotReceipts(); err != nil {
		_ = board.Close()
		return nil, fmt.Errorf("election: close ballot_receipts: %w", err)
	}
	if err := board.CloseOriginalOrderCommitments(); err != nil {
		_ = board.Close()
		return nil, fmt.Errorf("election: close original_order_commitments: %w", err)
	}

	// Step 5: mix. Posts the 2m commitment lists and the t-value grid.
	if err := ps.MixVotes(); err != nil {
		_ = board.Close()
		return nil, fmt.Errorf("election: mix votes: %w", err)
	}

	// Step 6: the driver, acting as verifier, draws the random
	// challenge partitioning the 2m rounds into m proof rounds and m
	// outcome rounds, unpredictable to the PS since it is drawn only
	// after every round's commitments and t-values are already posted.
	proofRounds, outcomeRounds := drawChallenge(cfg.Params.TwoM)

	// Step 7: publish the consistency proof, then the outcome proof.
	if _, err := ps.PublishConsistencyProof(proofRounds); err != nil {
		_ = board.Close()
		return nil, fmt.Errorf("election: publish consistency proof: %w", err)
	}
	if _, err := ps.PublishElectionOutcome(outcomeRounds); err != nil {
		_ = board.Close()
		return nil, fmt.Errorf("election: publish election outcome: %w", err)
	}

	// Step 8: close the SBB only after every section is fully written.
	if err := board.Close(); err != nil {
		return nil, fmt.Errorf("election: close SBB: %w", err)
	}

	contents, err := sbb.Read(cfg.SBBPath, cfg.Params.NumVoters, cfg.Params.TwoM)
	if err != nil {
		return nil, fmt.Errorf("election: read back SBB: %w", err)
	}

	for i := range receipts {
		if _, err := store.GetTablet(receipts[i].TabletID); err != nil {
			return nil, protocol.Fail(protocol.VoterVerificationFailure,
				fmt.Errorf("tablet %s not found in registration index: %w", receipts[i].TabletID, err)).WithVote(i)
		}
		indexed, err := store.GetReceipt(receipts[i].Bid)
		if err != nil || indexed.ReceiptHash != receipts[i].Hash {
			return nil, protocol.Fail(protocol.VoterVerificationFailure,
				fmt.Errorf("receipt for %s not found or mismatched in local index", receipts[i].TabletID)).WithVote(i)
		}

		posted, ok := contents.ReceiptForBid(crypto.BytesToBigInt(receipts[i].Bid))
		if !ok || posted != receipts[i].Hash {
			return nil, protocol.Fail(protocol.VoterVerificationFailure,
				fmt.Errorf("receipt for %s not found or mismatched on SBB", receipts[i].TabletID)).WithVote(i)
		}
		receipts[i].Verified = true
	}

	result, err := verifier.Verify(contents, cfg.Params.M, cfg.Params.Rows)
	if err != nil {
		return nil, fmt.Errorf("election: verification failed: %w", err)
	}

	return &Summary{Receipts: receipts, Result: result}, nil
}

// drawChallenge partitions [0,twoM) into two disjoint halves of size
// twoM/2 via a uniformly random permutation, independent of any
// round's content.
func drawChallenge(twoM int) (proofRounds, outcomeRounds []int) {
	perm := util.Permutation(twoM)
	half := twoM / 2
	proofRounds = append([]int(nil), perm[:half]...)
	outcomeRounds = append([]int(nil), perm[half:]...)
	return proofRounds, outcomeRounds
}
