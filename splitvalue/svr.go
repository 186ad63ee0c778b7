package splitvalue

import (
	"math/big"

	"github.com/splitvote/mixnet-election/crypto"
)

// SVR is a split-value representation: a split-value pair plus two
// independent 16-byte commitment keys, one per share.
type SVR struct {
	K1 []byte
	K2 []byte
	U  *big.Int
	V  *big.Int
}

// GetSVR draws a randomized split-value representation of x mod M, with
// fresh independent commitment keys.
func GetSVR(x, M *big.Int) SVR {
	sv := Get(x, M)
	return SVR{
		K1: crypto.RandomKey(),
		K2: crypto.RandomKey(),
		U:  sv.U,
		V:  sv.V,
	}
}

// Val returns the value this SVR commits to.
func (s SVR) Val(M *big.Int) *big.Int {
	return Val(s.U, s.V, M)
}

// ComU returns the HMAC commitment to the u share.
func (s SVR) ComU() []byte {
	return crypto.COM(s.K1, crypto.BigIntToBytes(s.U))
}

// ComV returns the HMAC commitment to the v share.
func (s SVR) ComV() []byte {
	return crypto.COM(s.K2, crypto.BigIntToBytes(s.V))
}
