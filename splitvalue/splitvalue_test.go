package splitvalue

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/splitvote/mixnet-election/crypto"
)

func TestGetRoundTrips(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(101)
	for x := int64(0); x < 101; x++ {
		sv := Get(big.NewInt(x), M)
		c.Assert(Val(sv.U, sv.V, M).Int64(), qt.Equals, x)
		c.Assert(sv.U.Sign() >= 0 && sv.U.Cmp(M) < 0, qt.IsTrue)
		c.Assert(sv.V.Sign() >= 0 && sv.V.Cmp(M) < 0, qt.IsTrue)
	}
}

func TestGetMultipleSumsToX(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(7)
	for _, n := range []int{1, 2, 3, 8} {
		for x := int64(0); x < 7; x++ {
			shares := GetMultiple(big.NewInt(x), n, M)
			c.Assert(len(shares), qt.Equals, n)
			c.Assert(Sum(shares, M).Int64(), qt.Equals, x)
		}
	}
}

func TestSVRCommitmentsAreStable(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(13)
	svr := GetSVR(big.NewInt(5), M)

	comU1, comV1 := svr.ComU(), svr.ComV()
	comU2, comV2 := svr.ComU(), svr.ComV()
	c.Assert(comU1, qt.DeepEquals, comU2)
	c.Assert(comV1, qt.DeepEquals, comV2)

	c.Assert(crypto.COMEqual(svr.K1, crypto.BigIntToBytes(svr.U), comU1), qt.IsTrue)
	c.Assert(crypto.COMEqual(svr.K2, crypto.BigIntToBytes(svr.V), comV1), qt.IsTrue)

	// Tampering with the committed value breaks the opening.
	tampered := new(big.Int).Add(svr.U, big.NewInt(1))
	c.Assert(crypto.COMEqual(svr.K1, crypto.BigIntToBytes(tampered), comU1), qt.IsFalse)
}

func TestTValIsAdditiveOffset(t *testing.T) {
	c := qt.New(t)
	M := big.NewInt(17)
	a := big.NewInt(3)
	b := big.NewInt(9)
	tv := TVal(a, b, M)
	c.Assert(new(big.Int).Mod(new(big.Int).Add(a, tv), M).Int64(), qt.Equals, b.Int64())
}
