package proofserver

import "github.com/splitvote/mixnet-election/util"

// applyPermutation places src[i] at destination pi[i], matching
// util.Permutation's convention.
func applyPermutation[T any](src []T, pi []int) []T {
	dst := make([]T, len(src))
	for i, v := range src {
		dst[pi[i]] = v
	}
	return dst
}

// applyInversePermutation undoes a single applyPermutation(_, pi) step.
func applyInversePermutation[T any](dst []T, pi []int) []T {
	inv := util.InversePermutation(pi)
	return applyPermutation(dst, inv)
}
