package protocol

import "math/big"

// Params are the public parameters of one election, fixed before voting
// begins and shared by every component.
type Params struct {
	// M bounds the ballot value space: every vote is an integer in [0, M).
	M *big.Int
	// Rows is the mix-net width: the number of split-value components
	// each ballot is broken into.
	Rows int
	// TwoM is the number of independent mix rounds (2m). Half are opened
	// for consistency, half for the outcome.
	TwoM int
	// NumVoters is fixed before mixing begins.
	NumVoters int
}

// DefaultM is a small prime comfortably larger than any plausible ballot
// choice index used by the simulator's default configuration.
var DefaultM = big.NewInt(2147483647)
