package storage

import (
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

func TestReceiptIndex(t *testing.T) {
	c := qt.New(t)
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "db")

	d, err := metadb.New(db.TypePebble, dbPath)
	c.Assert(err, qt.IsNil)

	st := New(d)
	defer st.Close()

	bid := []byte("ballot-one")
	r := &ReceiptRecord{Bid: bid, ReceiptHash: "deadbeef", TabletID: "tablet-a"}
	c.Assert(st.PutReceipt(r), qt.IsNil)

	got, err := st.GetReceipt(bid)
	c.Assert(err, qt.IsNil, qt.Commentf("should retrieve the indexed receipt"))
	c.Assert(got.ReceiptHash, qt.Equals, "deadbeef")
	c.Assert(got.TabletID, qt.Equals, "tablet-a")

	c.Assert(st.PutReceipt(r), qt.Equals, ErrKeyAlreadyExists)

	_, err = st.GetReceipt([]byte("unknown-ballot"))
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestTabletIndex(t *testing.T) {
	c := qt.New(t)
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "db")

	d, err := metadb.New(db.TypePebble, dbPath)
	c.Assert(err, qt.IsNil)

	st := New(d)
	defer st.Close()

	tr := &TabletRecord{TabletID: "tablet-a", KeyFingerprint: "abc123"}
	c.Assert(st.PutTablet(tr), qt.IsNil)

	got, err := st.GetTablet("tablet-a")
	c.Assert(err, qt.IsNil)
	c.Assert(got.KeyFingerprint, qt.Equals, "abc123")

	_, err = st.GetTablet("tablet-b")
	c.Assert(err, qt.Equals, ErrNotFound)
}
