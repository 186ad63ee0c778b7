package proofserver

import (
	"fmt"
	"math/big"

	"github.com/splitvote/mixnet-election/crypto"
	"github.com/splitvote/mixnet-election/protocol"
)

func bytesKeyToInt(k []byte) *big.Int {
	return crypto.BytesToBigInt(k)
}

// PublishConsistencyProof opens the selected side (u or v, fixed per
// vote via selectUV and stable across every opened round) of the
// initial and unmixed-final SVR for every row of every vote position,
// across the given proof rounds. The proof server must choose selectUV
// independently of the challenge; this implementation draws it once,
// right after mixing completes and before any challenge is known, so
// it cannot be tailored to whichever rounds are later selected for
// consistency checking.
func (s *Server) PublishConsistencyProof(proofRounds []int) (map[int]protocol.ConsistencyProofRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mixed {
		return nil, fmt.Errorf("proofserver: MixVotes has not run")
	}

	proof := make(map[int]protocol.ConsistencyProofRound, len(proofRounds))
	for _, round := range proofRounds {
		if round < 0 || round >= s.twoM {
			return nil, fmt.Errorf("proofserver: round %d out of range", round)
		}
		perRound := make(protocol.ConsistencyProofRound, s.n)
		for j := 0; j < s.n; j++ {
			perRound[j] = make([]protocol.ConsistencyOpening, s.rows)
			side := "u"
			if s.selectUV[j] == 1 {
				side = "v"
			}
			for r := 0; r < s.rows; r++ {
				initial := s.initialSV[r][j]
				final := s.unmixedCommitmentArrays[round][r][j]

				var init, fin protocol.OpenedComponent
				if side == "u" {
					init = protocol.OpenedComponent{Value: initial.U, Key: bytesKeyToInt(initial.K1)}
					fin = protocol.OpenedComponent{Value: final.U, Key: bytesKeyToInt(final.K1)}
				} else {
					init = protocol.OpenedComponent{Value: initial.V, Key: bytesKeyToInt(initial.K2)}
					fin = protocol.OpenedComponent{Value: final.V, Key: bytesKeyToInt(final.K2)}
				}
				perRound[j][r] = protocol.ConsistencyOpening{Side: side, Init: init, Fin: fin}
			}
		}
		proof[round] = perRound
	}

	if err := s.board.WriteConsistencyProof(proof); err != nil {
		return nil, fmt.Errorf("proofserver: post consistency proof: %w", err)
	}
	return proof, nil
}
