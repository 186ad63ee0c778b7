package protocol

import "math/big"

// EncryptedSVR is a split-value representation with each of its four
// components (k1, k2, u, v) encrypted independently under the proof
// server's registered symmetric key, per-field, so a partial decryption
// never discloses a full share or key.
type EncryptedSVR struct {
	K1 []byte `json:"k1"`
	K2 []byte `json:"k2"`
	U  []byte `json:"u"`
	V  []byte `json:"v"`
}

// VoteMessage is the tablet-to-proof-server wire message for a single row
// of a single ballot position: an encrypted split-value representation
// together with the commitments the tablet posts to the SBB so the proof
// server's opening can later be checked against what voters saw.
type VoteMessage struct {
	Bid      []byte       `json:"bid"`
	TabletID string       `json:"tablet_id"`
	Row      int          `json:"row"`
	Enc      EncryptedSVR `json:"enc"`
	ComU     *big.Int     `json:"com_u"`
	ComV     *big.Int     `json:"com_v"`
}
