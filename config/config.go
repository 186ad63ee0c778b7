// Package config parses the election simulator's command-line flags
// into a validated set of protocol parameters.
package config

import (
	"fmt"
	"math/big"

	flag "github.com/spf13/pflag"

	"github.com/splitvote/mixnet-election/protocol"
)

// Config holds everything needed to run one simulated election.
type Config struct {
	Params     protocol.Params
	Candidates int // number of distinct choices offered to voters, 0..Candidates-1
	SBBPath    string
	LogLevel   string
	LogOutput  string
}

// Default matches the spec's reference scenario: 5 voters, 3 rows, 4
// mixing rounds (2m = 4), half opened as consistency proofs.
func Default() Config {
	return Config{
		Params: protocol.Params{
			M:         new(big.Int).Set(protocol.DefaultM),
			Rows:      3,
			TwoM:      4,
			NumVoters: 5,
		},
		Candidates: 5,
		SBBPath:    "sbb.txt",
		LogLevel:   "info",
		LogOutput:  "stderr",
	}
}

// ParseFlags parses os.Args[1:]-style arguments (with its own pflag
// FlagSet, not the package-level flag.CommandLine) into a Config,
// starting from Default, and validates the result.
func ParseFlags(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("electionsim", flag.ContinueOnError)
	voters := fs.Int("voters", cfg.Params.NumVoters, "number of simulated voters")
	rows := fs.Int("rows", cfg.Params.Rows, "split-value multiple width (mix-net row count)")
	twoM := fs.Int("rounds", cfg.Params.TwoM, "total mixing rounds (2m); must be even")
	modulus := fs.String("modulus", cfg.Params.M.String(), "prime modulus M for split-value arithmetic")
	candidates := fs.Int("candidates", cfg.Candidates, "number of distinct candidate choices offered to voters")
	sbbPath := fs.String("sbb", cfg.SBBPath, "path to write the bulletin board transcript")
	logLevel := fs.String("loglevel", cfg.LogLevel, "log level: debug, info, warn, error")
	logOutput := fs.String("logoutput", cfg.LogOutput, "log output: stdout, stderr, or a file path")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Params.NumVoters = *voters
	cfg.Params.Rows = *rows
	cfg.Params.TwoM = *twoM
	cfg.Candidates = *candidates
	cfg.SBBPath = *sbbPath
	cfg.LogLevel = *logLevel
	cfg.LogOutput = *logOutput

	m, ok := new(big.Int).SetString(*modulus, 10)
	if !ok {
		return Config{}, fmt.Errorf("config: invalid modulus %q", *modulus)
	}
	cfg.Params.M = m

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the structural constraints the protocol requires.
func (c Config) Validate() error {
	if c.Params.NumVoters < 1 {
		return fmt.Errorf("config: voters must be at least 1, got %d", c.Params.NumVoters)
	}
	if c.Params.Rows < 1 {
		return fmt.Errorf("config: rows must be at least 1, got %d", c.Params.Rows)
	}
	if c.Params.TwoM < 2 || c.Params.TwoM%2 != 0 {
		return fmt.Errorf("config: rounds must be a positive even number, got %d", c.Params.TwoM)
	}
	if c.Params.M == nil || c.Params.M.Sign() <= 0 {
		return fmt.Errorf("config: modulus must be positive")
	}
	if c.Candidates < 1 || big.NewInt(int64(c.Candidates)).Cmp(c.Params.M) > 0 {
		return fmt.Errorf("config: candidates must be between 1 and modulus, got %d", c.Candidates)
	}
	return nil
}
