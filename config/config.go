// Package config holds the explicit run configuration for the
// benchmark harness. Nothing here is process-global; the CLI builds
// one Config and hands it down.
package config

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultMaxBatch caps the generated powers-of-two batch-size
	// sequence: 1, 2, 4, ..., 2048.
	DefaultMaxBatch = 2048

	// DefaultResultsDir is where run reports are persisted.
	DefaultResultsDir = "data/benchmarks"
)

// Config controls one invocation of the harness.
type Config struct {
	Algorithms       []string `toml:"algorithms"`
	BatchSizes       []int    `toml:"batch_sizes"`
	MaxBatch         int      `toml:"max_batch"`
	Parallel         bool     `toml:"parallel"`
	SkipSigning      bool     `toml:"skip_signing"`
	SkipVerification bool     `toml:"skip_verification"`
	ResultsDir       string   `toml:"results_dir"`

	// RPCURL enables on-chain gas measurement when set. Registry is
	// the deployed key-registry contract address the estimates are
	// made against.
	RPCURL   string `toml:"rpc_url"`
	Registry string `toml:"registry"`
}

// Default returns the baseline configuration: dilithium3 only, powers
// of two up to DefaultMaxBatch, sequential execution, no chain.
func Default() Config {
	return Config{
		Algorithms: []string{"dilithium3"},
		MaxBatch:   DefaultMaxBatch,
		ResultsDir: DefaultResultsDir,
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	return cfg, nil
}

// Normalize validates the configuration and expands derived fields.
// Batch sizes are sorted ascending and deduplicated; an empty list
// expands to powers of two from 1 to MaxBatch.
func (c *Config) Normalize() error {
	if len(c.Algorithms) == 0 {
		return fmt.Errorf("no algorithms configured")
	}

	if len(c.BatchSizes) == 0 {
		if c.MaxBatch < 1 {
			return fmt.Errorf("max batch must be >= 1, got %d", c.MaxBatch)
		}

		c.BatchSizes = PowersOfTwo(c.MaxBatch)

		return nil
	}

	for _, size := range c.BatchSizes {
		if size < 1 {
			return fmt.Errorf("batch size must be >= 1, got %d", size)
		}
	}

	sort.Ints(c.BatchSizes)

	deduped := c.BatchSizes[:1]
	for _, size := range c.BatchSizes[1:] {
		if size != deduped[len(deduped)-1] {
			deduped = append(deduped, size)
		}
	}

	c.BatchSizes = deduped

	return nil
}

// PowersOfTwo returns the ascending sequence 1, 2, 4, ... up to and
// including the largest power of two <= max.
func PowersOfTwo(max int) []int {
	sizes := make([]int, 0, 12)
	for size := 1; size <= max; size *= 2 {
		sizes = append(sizes, size)
	}

	return sizes
}
