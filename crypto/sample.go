package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandMod samples 16 uniform bytes, interprets them as a non-negative
// integer, and reduces modulo M. M is assumed small relative to 2^128, so
// the bias introduced by the reduction is negligible.
func RandMod(M *big.Int) *big.Int {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto: failed to read random bytes: %v", err))
	}
	r := BytesToBigInt(b)
	return r.Mod(r, M)
}

// RandomKey returns a fresh, uniformly random KeySize-byte commitment key.
func RandomKey() []byte {
	k := make([]byte, KeySize)
	if _, err := rand.Read(k); err != nil {
		panic(fmt.Sprintf("crypto: failed to read random key: %v", err))
	}
	return k
}

// RandomBytes returns n uniformly random bytes.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto: failed to read random bytes: %v", err))
	}
	return b
}
