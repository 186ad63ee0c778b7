package protocol

import "math/big"

// OpenedComponent is one opened split-value share: the value and the
// commitment key that opens it.
type OpenedComponent struct {
	Value *big.Int `json:"value"`
	Key   *big.Int `json:"key"`
}

// TValuePair is the pre-committed (tu, tv) additive offset pair for one
// (round, row, vote): tu = (final.u - initial.u) mod M, tv symmetric.
// Posted before the random challenge so the proof server cannot tailor
// its later openings to the rounds it learns will be checked.
type TValuePair struct {
	TU *big.Int `json:"tu"`
	TV *big.Int `json:"tv"`
}

// ConsistencyOpening is what the proof server reveals for one (round,
// vote, row) pair of a consistency-checked round: which side (u or v)
// was opened, and the initial and final values/keys on that side. The
// verifier recomputes t = (fin.Value - init.Value) mod M and checks it
// against the posted TValuePair on the same side.
type ConsistencyOpening struct {
	Side string          `json:"side"`
	Init OpenedComponent `json:"init"`
	Fin  OpenedComponent `json:"fin"`
}

// ConsistencyProofRound is one round's opening: indexed [vote][row].
type ConsistencyProofRound [][]ConsistencyOpening
