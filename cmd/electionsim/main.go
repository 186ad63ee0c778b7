// Command electionsim runs one simulated split-value mix-net election:
// it casts randomly chosen ballots across --voters tablets, mixes them
// through a proof server, publishes the consistency and outcome
// proofs, and independently verifies the result against the bulletin
// board transcript.
package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/splitvote/mixnet-election/config"
	"github.com/splitvote/mixnet-election/election"
	"github.com/splitvote/mixnet-election/log"
	"github.com/splitvote/mixnet-election/util"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.ParseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "electionsim:", err)
		return 2
	}

	if err := log.Init(cfg.LogLevel, cfg.LogOutput, nil); err != nil {
		fmt.Fprintln(os.Stderr, "electionsim:", err)
		return 2
	}

	choices := make(election.Choices, cfg.Params.NumVoters)
	for i := range choices {
		choices[i] = big.NewInt(int64(util.RandomInt(0, cfg.Candidates)))
	}

	summary, err := election.Run(cfg, choices)
	if err != nil {
		fmt.Fprintln(os.Stderr, "electionsim: election failed:", err)
		return 1
	}

	printSummary(summary)
	return 0
}

func printSummary(s *election.Summary) {
	fmt.Println("Ballot receipts:")
	for _, r := range s.Receipts {
		status := "VERIFIED"
		if !r.Verified {
			status = "UNVERIFIED"
		}
		fmt.Printf("  %-12s bid=%x receipt=%s [%s]\n", r.TabletID, r.Bid, r.Hash, status)
	}

	fmt.Println("\nFinal tally:")
	for choice, count := range s.Result.Tally {
		fmt.Printf("  %s: %d\n", choice, count)
	}

	switch len(s.Result.Winner) {
	case 0:
		fmt.Println("\nNo votes were cast.")
	case 1:
		fmt.Printf("\nWinner: %s\n", s.Result.Winner[0])
	default:
		fmt.Printf("\nTie between: %v\n", s.Result.Winner)
	}
}
