package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// KeySize is the length in bytes of a commitment key (k1 or k2 of an SVR).
const KeySize = 16

// COM computes an HMAC-SHA256 commitment to x under key k. To open the
// commitment, recompute COM(k, x) and compare for equality.
func COM(k, x []byte) []byte {
	h := hmac.New(sha256.New, k)
	h.Write(x)
	return h.Sum(nil)
}

// COMEqual reports whether a freshly computed commitment matches one
// previously posted to the bulletin board. Posted commitments travel as
// little-endian integers, which drop trailing zero bytes, so both sides
// are compared in that minimal encoding.
func COMEqual(k, x, posted []byte) bool {
	computed := BigIntToBytes(BytesToBigInt(COM(k, x)))
	return hmac.Equal(computed, BigIntToBytes(BytesToBigInt(posted)))
}

// Hash returns the lowercase hex SHA-256 digest of b.
func Hash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
