// Package crypto implements the cryptographic primitives the split-value
// mix-net is built from: the deterministic little-endian integer encoding
// commitments rely on, HMAC commitments, SHA-256 hashing, authenticated
// symmetric encryption for the tablet-to-proof-server channel, and RSA-OAEP
// key transport for registering a tablet's symmetric key.
package crypto

import "math/big"

// BigIntToBytes serializes a non-negative big.Int to a little-endian byte
// string of minimal length. The zero value encodes to a single zero byte.
//
// This encoding is load-bearing: commitments are computed over it, so any
// two parties that disagree on it will disagree on every COM value derived
// from the same plaintext.
func BigIntToBytes(v *big.Int) []byte {
	be := v.Bytes() // big-endian, minimal length; empty when v == 0
	if len(be) == 0 {
		return []byte{0}
	}
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}

// BytesToBigInt interprets b as a little-endian unsigned integer.
func BytesToBigInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	return new(big.Int).SetBytes(be)
}
