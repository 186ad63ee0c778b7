package protocol

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Receipt is the canonical record a tablet hands a voter after casting a
// ballot: the ballot id and the full set of row commitments the voter can
// later look up on the bulletin board to confirm nothing was altered.
type Receipt struct {
	Bid         []byte  `json:"bid"`
	Commitments []ComSV `json:"commitments"`
}

// Hash returns the hex-encoded SHA-256 digest of the receipt's canonical
// JSON encoding. Two receipts with identical content always hash
// identically regardless of in-memory construction order, since
// encoding/json serializes struct fields in declaration order.
func (r Receipt) Hash() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
