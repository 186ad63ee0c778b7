// Package sbb implements the Secure Bulletin Board: an append-only,
// line-oriented transcript with a fixed section grammar. Every record is
// one line of JSON; sections are opened by a literal header line and
// closed by an end_section line. All big integers round-trip through
// JSON using math/big so 256-bit commitment outputs never truncate.
package sbb

// Section header and terminator literals, in order of first appearance
// within an election's transcript.
const (
	HeadingBallotReceipts           = "ballot_receipts"
	HeadingOriginalOrderCommitments = "original_order_commitments"
	HeadingMixnetVoteCommitmentList = "mixnet_vote_commitment_list"
	HeadingTValueCommitmentList     = "tvalue_commitment_list"
	HeadingConsistencyProof         = "consistency_proof"
	HeadingElectionOutcome          = "election_outcome"
	HeadingEndSection               = "end_section"
)

// Filename is the transcript file the simulator writes to the current
// working directory.
const Filename = "sbb.txt"
