// Package splitvalue implements the split-value (SV) algebra the mix-net is
// built on: representing a ballot value x mod M as an additive share pair or
// n-way share tuple, and the split-value representation (SVR) that pairs a
// share with two independent HMAC commitment keys.
package splitvalue

import (
	"math/big"

	"github.com/splitvote/mixnet-election/crypto"
)

// SV is a split-value pair (u, v) with (u+v) mod M == x.
type SV struct {
	U *big.Int
	V *big.Int
}

// Get returns a randomized split-value representation of x mod M: u is
// sampled uniformly from [0, M) and v is set so that (u+v) mod M == x.
func Get(x, M *big.Int) SV {
	u := crypto.RandMod(M)
	v := new(big.Int).Sub(x, u)
	v.Mod(v, M)
	return SV{U: u, V: v}
}

// GetMultiple returns an n-way additive share tuple (s0,...,s_{n-1}) with
// sum(s) mod M == x. The first n-1 shares are sampled uniformly; the last
// is fixed so the sum is correct.
func GetMultiple(x *big.Int, n int, M *big.Int) []*big.Int {
	shares := make([]*big.Int, n)
	sum := new(big.Int)
	for i := 0; i < n-1; i++ {
		shares[i] = crypto.RandMod(M)
		sum.Add(sum, shares[i])
	}
	last := new(big.Int).Sub(x, sum)
	last.Mod(last, M)
	shares[n-1] = last
	return shares
}

// Val returns (u+v) mod M, the value a split-value pair represents.
func Val(u, v, M *big.Int) *big.Int {
	sum := new(big.Int).Add(u, v)
	return sum.Mod(sum, M)
}

// TVal returns (b-a) mod M, the additive offset obfuscation introduces
// between a pre-mix component a and its post-mix counterpart b.
func TVal(a, b, M *big.Int) *big.Int {
	diff := new(big.Int).Sub(b, a)
	return diff.Mod(diff, M)
}

// Sum returns (sum(values)) mod M.
func Sum(values []*big.Int, M *big.Int) *big.Int {
	sum := new(big.Int)
	for _, v := range values {
		sum.Add(sum, v)
	}
	return sum.Mod(sum, M)
}
