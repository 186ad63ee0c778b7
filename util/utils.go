// Package util collects small helpers shared across the election simulator
// that don't belong to any single protocol package.
package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomBytes generates a random byte slice of length n.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

// RandomHex generates a random hex string of length n bytes.
func RandomHex(n int) string {
	return fmt.Sprintf("%x", RandomBytes(n))
}

// RandomInt generates a random integer in [min, max).
func RandomInt(min, max int) int {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	if err != nil {
		panic(err)
	}
	return int(num.Int64()) + min
}

// Permutation returns a uniformly random permutation of [0, n).
func Permutation(n int) []int {
	pi := make([]int, n)
	for i := range pi {
		pi[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := RandomInt(0, i+1)
		pi[i], pi[j] = pi[j], pi[i]
	}
	return pi
}

// InversePermutation returns pi^-1 such that inv[pi[i]] == i.
func InversePermutation(pi []int) []int {
	inv := make([]int, len(pi))
	for i, p := range pi {
		inv[p] = i
	}
	return inv
}
