package crypto

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBigIntByteRoundTrip(t *testing.T) {
	c := qt.New(t)
	cases := []int64{0, 1, 255, 256, 65535, 1 << 20, 1<<62 - 1}
	for _, n := range cases {
		v := big.NewInt(n)
		b := BigIntToBytes(v)
		got := BytesToBigInt(b)
		c.Assert(got.Cmp(v), qt.Equals, 0, qt.Commentf("n=%d", n))
	}
	// Zero encodes as exactly one byte.
	c.Assert(BigIntToBytes(big.NewInt(0)), qt.DeepEquals, []byte{0})
}

func TestCOMDeterministicAndSensitive(t *testing.T) {
	c := qt.New(t)
	k := RandomKey()
	x := []byte("ballot component")
	c.Assert(COM(k, x), qt.DeepEquals, COM(k, x))
	c.Assert(COMEqual(k, x, COM(k, x)), qt.IsTrue)
	c.Assert(COMEqual(k, []byte("ballot componenT"), COM(k, x)), qt.IsFalse)
}

func TestSymmetricKeyEncryptDecrypt(t *testing.T) {
	c := qt.New(t)
	k := NewSymmetricKey()
	plaintext := []byte("split-value share")
	ct, err := k.Encrypt(plaintext)
	c.Assert(err, qt.IsNil)
	pt, err := k.Decrypt(ct)
	c.Assert(err, qt.IsNil)
	c.Assert(pt, qt.DeepEquals, plaintext)

	other := NewSymmetricKey()
	_, err = other.Decrypt(ct)
	c.Assert(err, qt.IsNotNil)
}
