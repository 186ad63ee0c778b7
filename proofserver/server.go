// Package proofserver implements the proof server: the mix-net operator.
// It receives per-row encrypted vote messages from tablets, runs 2m
// independent mixing rounds that obfuscate and shuffle ballot components
// while committing to every intermediate value, and on request proves
// consistency with the cast ballots for half the rounds and reveals the
// (shuffled) outcome for the other half.
package proofserver

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/splitvote/mixnet-election/crypto"
	"github.com/splitvote/mixnet-election/protocol"
	"github.com/splitvote/mixnet-election/sbb"
	"github.com/splitvote/mixnet-election/splitvalue"

	"math/big"
)

// Server is the proof server / mix-net core.
type Server struct {
	rows int
	m    *big.Int
	twoM int
	rsa  *crypto.RegistrationKeyPair
	board *sbb.Writer

	mu      sync.Mutex
	tablets map[string]*crypto.SymmetricKey
	incoming [][]protocol.VoteMessage // incoming[row], insertion order

	// Populated by MixVotes.
	n                       int
	initialSV               [][]splitvalue.SVR    // [row][vote], pre-mix
	permutationArrays       [][][]int              // [round][col] permutation of [0,n)
	commitmentArrays        [][][]splitvalue.SVR   // [round][row][vote], post-mix
	unmixedCommitmentArrays [][][]splitvalue.SVR   // [round][row][vote], replayed to pre-mix order
	selectUV                []int                  // [vote] in {0,1}, stable across rounds
	mixed                   bool
}

// New creates a proof server for an election with the given mix width
// (rows) and value modulus M, generating a fresh RSA-OAEP key pair for
// tablet registration.
func New(rows int, m *big.Int, twoM int, board *sbb.Writer) (*Server, error) {
	rsaKey, err := crypto.GenerateRegistrationKeyPair()
	if err != nil {
		return nil, fmt.Errorf("proofserver: generate RSA key pair: %w", err)
	}
	return &Server{
		rows:     rows,
		m:        m,
		twoM:     twoM,
		rsa:      rsaKey,
		board:    board,
		tablets:  map[string]*crypto.SymmetricKey{},
		incoming: make([][]protocol.VoteMessage, rows),
	}, nil
}

// PublicKeyPEM returns the proof server's RSA-OAEP public key for
// tablet key transport.
func (s *Server) PublicKeyPEM() ([]byte, error) {
	return s.rsa.PublicKeyPEM()
}

// RegisterTablet decrypts the tablet's RSA-OAEP-wrapped symmetric key
// and stores it, keyed by tablet id.
func (s *Server) RegisterTablet(tabletID string, rsaCiphertext []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	keyBytes, err := s.rsa.Decrypt(rsaCiphertext)
	if err != nil {
		return fmt.Errorf("proofserver: unwrap tablet %s key: %w", tabletID, err)
	}
	key, err := crypto.SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return fmt.Errorf("proofserver: invalid tablet %s key: %w", tabletID, err)
	}
	s.tablets[tabletID] = &key
	log.Debug().Str("tablet", tabletID).Msg("registered tablet symmetric key")
	return nil
}

// HandleVote records one row of one cast ballot. Messages may arrive in
// any order across rows but each tablet must emit every row before
// MixVotes is called.
func (s *Server) HandleVote(m protocol.VoteMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Row < 0 || m.Row >= s.rows {
		return protocol.Fail(protocol.InvalidRowAssignment,
			fmt.Errorf("row %d out of range [0,%d)", m.Row, s.rows)).WithRow(m.Row)
	}
	s.incoming[m.Row] = append(s.incoming[m.Row], m)
	return nil
}
