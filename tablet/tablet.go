// Package tablet implements the voter-facing ballot box: it splits a cast
// vote into per-row split-value shares, commits to each share, encrypts
// the opening material for the proof server, and issues the voter a
// receipt hash they can later check against the bulletin board.
package tablet

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/splitvote/mixnet-election/crypto"
	"github.com/splitvote/mixnet-election/protocol"
	"github.com/splitvote/mixnet-election/sbb"
	"github.com/splitvote/mixnet-election/splitvalue"
)

// VoteSink receives per-row vote messages. The proof server implements
// this interface; the tablet never depends on the proof server package
// directly, only on this message channel.
type VoteSink interface {
	HandleVote(m protocol.VoteMessage) error
	RegisterTablet(tabletID string, rsaCiphertext []byte) error
	PublicKeyPEM() ([]byte, error)
}

// Tablet is one ballot-casting station. Each tablet owns a fresh
// symmetric key for the election and registers it with the proof server
// under RSA-OAEP transport before casting any votes.
type Tablet struct {
	ID     string
	rows   int
	M      *big.Int
	key    crypto.SymmetricKey
	ps     VoteSink
	board  *sbb.Writer
}

// New creates a tablet with a fresh symmetric key and registers that key
// with the proof server.
func New(id string, rows int, M *big.Int, ps VoteSink, board *sbb.Writer) (*Tablet, error) {
	t := &Tablet{
		ID:    id,
		rows:  rows,
		M:     M,
		key:   crypto.NewSymmetricKey(),
		ps:    ps,
		board: board,
	}
	pub, err := ps.PublicKeyPEM()
	if err != nil {
		return nil, fmt.Errorf("tablet %s: fetch PS public key: %w", id, err)
	}
	ciphertext, err := crypto.EncryptWithPublicKeyPEM(pub, t.key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("tablet %s: wrap symmetric key: %w", id, err)
	}
	if err := ps.RegisterTablet(id, ciphertext); err != nil {
		return nil, fmt.Errorf("tablet %s: register with PS: %w", id, err)
	}
	log.Debug().Str("tablet", id).Msg("registered with proof server")
	return t, nil
}

// KeyFingerprint returns a stable, non-reversible identifier for the
// tablet's symmetric key, suitable for indexing tablet registrations
// without exposing the key itself.
func (t *Tablet) KeyFingerprint() string {
	return crypto.Hash(t.key.Bytes())
}

// SendVote splits x into the tablet's rows, commits and encrypts each
// row's split-value representation, emits it to the proof server, posts
// the commitments and a voter receipt to the bulletin board, and returns
// the ballot id and receipt hash.
func (t *Tablet) SendVote(x *big.Int) (bid []byte, receiptHash string, err error) {
	bid = make([]byte, 32)
	if _, err := rand.Read(bid); err != nil {
		return nil, "", fmt.Errorf("tablet %s: generate bid: %w", t.ID, err)
	}

	shares := splitvalue.GetMultiple(x, t.rows, t.M)
	commitments := make([]protocol.ComSV, t.rows)

	for r := 0; r < t.rows; r++ {
		svr := splitvalue.GetSVR(shares[r], t.M)
		comU := svr.ComU()
		comV := svr.ComV()

		encK1, err := t.key.Encrypt(svr.K1)
		if err != nil {
			return nil, "", fmt.Errorf("tablet %s: encrypt k1 row %d: %w", t.ID, r, err)
		}
		encK2, err := t.key.Encrypt(svr.K2)
		if err != nil {
			return nil, "", fmt.Errorf("tablet %s: encrypt k2 row %d: %w", t.ID, r, err)
		}
		encU, err := t.key.Encrypt(crypto.BigIntToBytes(svr.U))
		if err != nil {
			return nil, "", fmt.Errorf("tablet %s: encrypt u row %d: %w", t.ID, r, err)
		}
		encV, err := t.key.Encrypt(crypto.BigIntToBytes(svr.V))
		if err != nil {
			return nil, "", fmt.Errorf("tablet %s: encrypt v row %d: %w", t.ID, r, err)
		}

		comUInt := crypto.BytesToBigInt(comU)
		comVInt := crypto.BytesToBigInt(comV)

		msg := protocol.VoteMessage{
			Bid:      bid,
			TabletID: t.ID,
			Row:      r,
			Enc: protocol.EncryptedSVR{
				K1: encK1,
				K2: encK2,
				U:  encU,
				V:  encV,
			},
			ComU: comUInt,
			ComV: comVInt,
		}
		if err := t.ps.HandleVote(msg); err != nil {
			return nil, "", fmt.Errorf("tablet %s: emit row %d: %w", t.ID, r, err)
		}

		commitments[r] = protocol.ComSV{ComU: comUInt, ComV: comVInt}
		if err := t.board.AppendOriginalOrderCommitment(r, commitments[r]); err != nil {
			return nil, "", fmt.Errorf("tablet %s: post commitment row %d: %w", t.ID, r, err)
		}
	}

	receipt := protocol.Receipt{Bid: bid, Commitments: commitments}
	hash, err := receipt.Hash()
	if err != nil {
		return nil, "", fmt.Errorf("tablet %s: hash receipt: %w", t.ID, err)
	}
	if err := t.board.AppendBallotReceipt(bid, hash); err != nil {
		return nil, "", fmt.Errorf("tablet %s: post receipt: %w", t.ID, err)
	}

	log.Debug().Str("tablet", t.ID).Str("bid", fmt.Sprintf("%x", bid)).Msg("vote cast")
	return bid, hash, nil
}
