// Package storage provides a prefixed key-value index over the election's
// in-memory artifacts, backed by go.vocdoni.io/dvote/db. It is not part of
// the protocol's trust boundary (the SBB transcript is the only artifact
// that must survive an election) but gives the election driver fast
// lookups that would otherwise require a linear scan of the bulletin
// board: receipts by ballot id, and registered tablets by tablet id. The
// following prefixes are used:
//   - 'r/' for ballot receipts, keyed by bid
//   - 't/' for tablet registrations, keyed by tablet_id
package storage

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	receiptPrefix = []byte("r/")
	tabletPrefix  = []byte("t/")

	ErrKeyAlreadyExists = fmt.Errorf("key already exists")
	ErrNotFound         = fmt.Errorf("key not found")
)

// ReceiptRecord is the index entry stored per cast ballot: the receipt
// hash the tablet handed the voter, keyed by the ballot id.
type ReceiptRecord struct {
	Bid         []byte
	ReceiptHash string
	TabletID    string
}

// TabletRecord is the index entry stored per registered tablet: a
// SHA-256 fingerprint of the tablet's symmetric key (see
// tablet.Tablet.KeyFingerprint).
type TabletRecord struct {
	TabletID       string
	KeyFingerprint string
}

// Storage is a prefixed key-value index over election artifacts.
type Storage struct {
	db db.Database
}

// New creates a new Storage instance over an already-open database.
func New(d db.Database) *Storage {
	return &Storage{db: d}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	s.db.Close()
}

func encodeGob(a any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, out any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(out)
}

func (s *Storage) set(prefix, key []byte, artifact any) error {
	data, err := encodeGob(artifact)
	if err != nil {
		return fmt.Errorf("could not encode: %w", err)
	}
	if _, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key); err == nil {
		return ErrKeyAlreadyExists
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, data); err != nil {
		return err
	}
	return wTx.Commit()
}

func (s *Storage) get(prefix, key []byte, out any) error {
	data, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key)
	if err != nil {
		return ErrNotFound
	}
	return decodeGob(data, out)
}

// PutReceipt indexes a voter's receipt by ballot id.
func (s *Storage) PutReceipt(r *ReceiptRecord) error {
	return s.set(receiptPrefix, r.Bid, r)
}

// GetReceipt looks up a receipt by ballot id.
func (s *Storage) GetReceipt(bid []byte) (*ReceiptRecord, error) {
	var r ReceiptRecord
	if err := s.get(receiptPrefix, bid, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// PutTablet indexes a registered tablet by tablet id.
func (s *Storage) PutTablet(t *TabletRecord) error {
	return s.set(tabletPrefix, []byte(t.TabletID), t)
}

// GetTablet looks up a tablet registration by tablet id.
func (s *Storage) GetTablet(tabletID string) (*TabletRecord, error) {
	var t TabletRecord
	if err := s.get(tabletPrefix, []byte(tabletID), &t); err != nil {
		return nil, err
	}
	return &t, nil
}
