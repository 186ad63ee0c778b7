package verifier

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLagrangeRecoversConstantTerm(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(2147483647)

	// f(x) = c0 + c1*x + c2*x^2 mod M
	c0 := big.NewInt(17)
	c1 := big.NewInt(5)
	c2 := big.NewInt(3)
	f := func(x int64) *big.Int {
		xv := big.NewInt(x)
		term1 := new(big.Int).Mul(c1, xv)
		term2 := new(big.Int).Mul(c2, new(big.Int).Mul(xv, xv))
		sum := new(big.Int).Add(c0, term1)
		sum.Add(sum, term2)
		return sum.Mod(sum, M)
	}

	ys := []*big.Int{f(1), f(2), f(3)}
	got := lagrangeAtZero(ys, M)
	c.Assert(got.Cmp(c0), qt.Equals, 0)
}

func TestLagrangeSingleNode(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(101)
	got := lagrangeAtZero([]*big.Int{big.NewInt(42)}, M)
	c.Assert(got.Int64(), qt.Equals, int64(42))
}
