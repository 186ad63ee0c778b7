package protocol

import "fmt"

// Kind identifies a class of fatal election failure. Every kind aborts
// the election outright: the protocol's guarantee is that cheating is
// detected, not that it is recoverable.
type Kind int

const (
	InvalidRowAssignment Kind = iota
	UnequalRowCardinality
	CommitmentVerificationFailure
	InitialCommitmentMismatch
	FinalCommitmentMismatch
	TValueMismatch
	LagrangeRelationFailure
	OutcomeCommitmentMismatch
	TallyDisagreement
	VoterVerificationFailure
	SBBParseError
)

func (k Kind) String() string {
	switch k {
	case InvalidRowAssignment:
		return "InvalidRowAssignment"
	case UnequalRowCardinality:
		return "UnequalRowCardinality"
	case CommitmentVerificationFailure:
		return "CommitmentVerificationFailure"
	case InitialCommitmentMismatch:
		return "InitialCommitmentMismatch"
	case FinalCommitmentMismatch:
		return "FinalCommitmentMismatch"
	case TValueMismatch:
		return "TValueMismatch"
	case LagrangeRelationFailure:
		return "LagrangeRelationFailure"
	case OutcomeCommitmentMismatch:
		return "OutcomeCommitmentMismatch"
	case TallyDisagreement:
		return "TallyDisagreement"
	case VoterVerificationFailure:
		return "VoterVerificationFailure"
	case SBBParseError:
		return "SBBParseError"
	default:
		return "UnknownFailure"
	}
}

// Error is a fatal election protocol error. It carries enough context
// (round, vote position, row, side) for a verifier run to be reproduced
// against the same SBB transcript.
type Error struct {
	Kind  Kind
	Round int
	Vote  int
	Row   int
	Side  string
	Err   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s", e.Kind)
	if e.Round >= 0 {
		msg += fmt.Sprintf(" round=%d", e.Round)
	}
	if e.Vote >= 0 {
		msg += fmt.Sprintf(" vote=%d", e.Vote)
	}
	if e.Row >= 0 {
		msg += fmt.Sprintf(" row=%d", e.Row)
	}
	if e.Side != "" {
		msg += fmt.Sprintf(" side=%s", e.Side)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Fail constructs a fatal error of the given kind. Round, vote, and row
// default to -1 (absent) unless set via the With* helpers.
func Fail(kind Kind, err error) *Error {
	return &Error{Kind: kind, Round: -1, Vote: -1, Row: -1, Err: err}
}

func (e *Error) WithRound(r int) *Error { e.Round = r; return e }
func (e *Error) WithVote(v int) *Error  { e.Vote = v; return e }
func (e *Error) WithRow(r int) *Error   { e.Row = r; return e }
func (e *Error) WithSide(s string) *Error {
	e.Side = s
	return e
}
