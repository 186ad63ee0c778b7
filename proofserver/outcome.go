package proofserver

import (
	"fmt"

	"github.com/splitvote/mixnet-election/protocol"
)

// PublishElectionOutcome opens every SVR component (k1, k2, u, v) of
// the given outcome rounds, in their still-shuffled post-mix order, so
// the verifier can reconstruct and tally the multiset of votes.
func (s *Server) PublishElectionOutcome(outcomeRounds []int) (map[int][][]protocol.OpenedSVR, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mixed {
		return nil, fmt.Errorf("proofserver: MixVotes has not run")
	}

	if err := s.board.StartElectionOutcome(); err != nil {
		return nil, fmt.Errorf("proofserver: open election_outcome section: %w", err)
	}

	outcomes := make(map[int][][]protocol.OpenedSVR, len(outcomeRounds))
	for _, round := range outcomeRounds {
		if round < 0 || round >= s.twoM {
			return nil, fmt.Errorf("proofserver: round %d out of range", round)
		}
		svrs := make([][]protocol.OpenedSVR, s.n)
		for j := 0; j < s.n; j++ {
			svrs[j] = make([]protocol.OpenedSVR, s.rows)
			for r := 0; r < s.rows; r++ {
				svr := s.commitmentArrays[round][r][j]
				svrs[j][r] = protocol.OpenedSVR{
					K1: bytesKeyToInt(svr.K1),
					K2: bytesKeyToInt(svr.K2),
					U:  svr.U,
					V:  svr.V,
				}
			}
		}
		if err := s.board.AppendElectionOutcome(round, svrs); err != nil {
			return nil, fmt.Errorf("proofserver: post outcome round %d: %w", round, err)
		}
		outcomes[round] = svrs
	}

	if err := s.board.CloseElectionOutcome(); err != nil {
		return nil, fmt.Errorf("proofserver: close election_outcome section: %w", err)
	}
	return outcomes, nil
}
