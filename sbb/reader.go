package sbb

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/splitvote/mixnet-election/protocol"
)

// Contents is the typed, parsed view of a transcript: everything a
// verifier needs without re-parsing the line grammar.
type Contents struct {
	// BallotReceipts maps a ballot id (as an arbitrary-precision integer
	// keyed by its decimal string, since big.Int is not a valid map key)
	// to its receipt hash.
	BallotReceipts map[string]string
	// OriginalOrderCommitments[row] is the ordered list of pre-mix
	// commitments posted for that row, across all voters in arrival
	// order.
	OriginalOrderCommitments [][]protocol.ComSV
	// VoteLists[round][vote] is a ComT: the rows of post-mix commitments
	// for that vote position in that round.
	VoteLists [][]protocol.ComT
	// TValues[round][row][vote] is the pre-committed (tu, tv) pair.
	TValues [][][]protocol.TValuePair
	// ConsistencyProof[round][vote][row] is the opened consistency data.
	ConsistencyProof map[int]protocol.ConsistencyProofRound
	// ElectionOutcomes[round][vote][row] is the fully opened SVR.
	ElectionOutcomes map[int][][]protocol.OpenedSVR
}

// Read parses the transcript at path into a Contents, enforcing the
// structural assertions the protocol requires: receipt count equals
// numVoters, the vote commitment list has exactly twoM rounds each of
// numVoters votes, and the outcome section has twoM/2 rounds each of
// numVoters votes.
func Read(path string, numVoters, twoM int) (*Contents, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sbb: open transcript: %w", err)
	}
	defer f.Close()

	c := &Contents{
		BallotReceipts:   map[string]string{},
		ConsistencyProof: map[int]protocol.ConsistencyProofRound{},
		ElectionOutcomes: map[int][][]protocol.OpenedSVR{},
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<28)

	for scanner.Scan() {
		heading := scanner.Text()
		switch heading {
		case HeadingBallotReceipts:
			if err := readLines(scanner, func(line string) error {
				var rl receiptLine
				if err := json.Unmarshal([]byte(line), &rl); err != nil {
					return protocol.Fail(protocol.SBBParseError, err)
				}
				c.BallotReceipts[rl.Bid.String()] = rl.Receipt
				return nil
			}); err != nil {
				return nil, err
			}
			if len(c.BallotReceipts) != numVoters {
				return nil, protocol.Fail(protocol.SBBParseError,
					fmt.Errorf("ballot_receipts: got %d receipts, want %d", len(c.BallotReceipts), numVoters))
			}

		case HeadingOriginalOrderCommitments:
			var rows [][]protocol.ComSV
			if err := readLines(scanner, func(line string) error {
				var cl commitmentLine
				if err := json.Unmarshal([]byte(line), &cl); err != nil {
					return protocol.Fail(protocol.SBBParseError, err)
				}
				for len(rows) <= cl.Row {
					rows = append(rows, nil)
				}
				rows[cl.Row] = append(rows[cl.Row], protocol.ComSV{ComU: cl.ComU, ComV: cl.ComV})
				return nil
			}); err != nil {
				return nil, err
			}
			c.OriginalOrderCommitments = rows

		case HeadingMixnetVoteCommitmentList:
			if err := readLines(scanner, func(line string) error {
				var votes []protocol.ComT
				if err := json.Unmarshal([]byte(line), &votes); err != nil {
					return protocol.Fail(protocol.SBBParseError, err)
				}
				if len(votes) != numVoters {
					return protocol.Fail(protocol.SBBParseError,
						fmt.Errorf("mixnet_vote_commitment_list: round has %d votes, want %d", len(votes), numVoters))
				}
				c.VoteLists = append(c.VoteLists, votes)
				return nil
			}); err != nil {
				return nil, err
			}
			if len(c.VoteLists) != twoM {
				return nil, protocol.Fail(protocol.SBBParseError,
					fmt.Errorf("mixnet_vote_commitment_list: got %d rounds, want %d", len(c.VoteLists), twoM))
			}

		case HeadingTValueCommitmentList:
			if !scanner.Scan() {
				return nil, protocol.Fail(protocol.SBBParseError, fmt.Errorf("tvalue_commitment_list: missing body"))
			}
			if err := json.Unmarshal(scanner.Bytes(), &c.TValues); err != nil {
				return nil, protocol.Fail(protocol.SBBParseError, err)
			}
			if err := expectEndSection(scanner); err != nil {
				return nil, err
			}

		case HeadingConsistencyProof:
			if !scanner.Scan() {
				return nil, protocol.Fail(protocol.SBBParseError, fmt.Errorf("consistency_proof: missing body"))
			}
			if err := json.Unmarshal(scanner.Bytes(), &c.ConsistencyProof); err != nil {
				return nil, protocol.Fail(protocol.SBBParseError, err)
			}
			if len(c.ConsistencyProof) != twoM/2 {
				return nil, protocol.Fail(protocol.SBBParseError,
					fmt.Errorf("consistency_proof: got %d entries, want %d", len(c.ConsistencyProof), twoM/2))
			}
			if err := expectEndSection(scanner); err != nil {
				return nil, err
			}

		case HeadingElectionOutcome:
			if err := readLines(scanner, func(line string) error {
				var ol outcomeLine
				if err := json.Unmarshal([]byte(line), &ol); err != nil {
					return protocol.Fail(protocol.SBBParseError, err)
				}
				if len(ol.SVRs) != numVoters {
					return protocol.Fail(protocol.SBBParseError,
						fmt.Errorf("election_outcome: list %d has %d votes, want %d", ol.ListIdx, len(ol.SVRs), numVoters))
				}
				c.ElectionOutcomes[ol.ListIdx] = ol.SVRs
				return nil
			}); err != nil {
				return nil, err
			}
			if len(c.ElectionOutcomes) != twoM/2 {
				return nil, protocol.Fail(protocol.SBBParseError,
					fmt.Errorf("election_outcome: got %d lists, want %d", len(c.ElectionOutcomes), twoM/2))
			}

		case "":
			// blank line between sections; ignore.
		default:
			return nil, protocol.Fail(protocol.SBBParseError, fmt.Errorf("unexpected heading %q", heading))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sbb: scan transcript: %w", err)
	}
	return c, nil
}

// readLines calls fn for each record line until end_section.
func readLines(scanner *bufio.Scanner, fn func(line string) error) error {
	for scanner.Scan() {
		line := scanner.Text()
		if line == HeadingEndSection {
			return nil
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return protocol.Fail(protocol.SBBParseError, fmt.Errorf("section not terminated by end_section"))
}

func expectEndSection(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		return protocol.Fail(protocol.SBBParseError, fmt.Errorf("section not terminated by end_section"))
	}
	if scanner.Text() != HeadingEndSection {
		return protocol.Fail(protocol.SBBParseError, fmt.Errorf("expected end_section, got %q", scanner.Text()))
	}
	return nil
}

// ReceiptForBid looks up the posted receipt hash for a ballot id.
func (c *Contents) ReceiptForBid(bid *big.Int) (string, bool) {
	h, ok := c.BallotReceipts[bid.String()]
	return h, ok
}
