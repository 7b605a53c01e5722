// Package main provides the CLI entry point for sigbench, a batch
// scalability benchmark for post-quantum and classical signature
// algorithms.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pqsig/sigbench/chain"
	"github.com/pqsig/sigbench/config"
	"github.com/pqsig/sigbench/harness"
	"github.com/pqsig/sigbench/report"
	"github.com/pqsig/sigbench/scheme"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "sigbench",
		Short: "Batch scalability benchmark for digital-signature algorithms",
		Long: `Sigbench measures key generation, signing, and verification latency
and throughput for post-quantum and classical signature schemes across a
geometric progression of batch sizes, optionally estimating the gas cost
of publishing keys and signatures on an Ethereum chain.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newAlgorithmsCmd())

	return root
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported algorithm identifiers",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range scheme.Known() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		configPath       string
		algorithms       []string
		batchSizes       []int
		maxBatch         int
		parallel         bool
		skipSigning      bool
		skipVerification bool
		resultsDir       string
		rpcURL           string
		registry         string
		outputJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run batch scalability sweeps for one or more algorithms",
		Long: `Run the key generation, signing, and verification sweeps across the
configured batch sizes for each selected algorithm, persist the run
report as JSON, and print a scalability summary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()

			if configPath != "" {
				var err error

				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}

			// CLI flags win over the config file.
			flags := cmd.Flags()
			if flags.Changed("algorithms") {
				cfg.Algorithms = algorithms
			}
			if flags.Changed("batch-sizes") {
				cfg.BatchSizes = batchSizes
			}
			if flags.Changed("max-batch") {
				cfg.MaxBatch = maxBatch
			}
			if flags.Changed("parallel") {
				cfg.Parallel = parallel
			}
			if flags.Changed("skip-signing") {
				cfg.SkipSigning = skipSigning
			}
			if flags.Changed("skip-verification") {
				cfg.SkipVerification = skipVerification
			}
			if flags.Changed("results-dir") {
				cfg.ResultsDir = resultsDir
			}
			if flags.Changed("rpc-url") {
				cfg.RPCURL = rpcURL
			}
			if flags.Changed("registry") {
				cfg.Registry = registry
			}

			if err := cfg.Normalize(); err != nil {
				return err
			}

			return runBenchmark(cmd.Context(), logger, cfg, outputJSON)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "",
		"Path to TOML config file")
	flags.StringSliceVar(&algorithms, "algorithms", []string{"dilithium3"},
		"Algorithms to benchmark (see 'sigbench algorithms')")
	flags.IntSliceVar(&batchSizes, "batch-sizes", nil,
		"Explicit batch sizes (default: powers of two up to --max-batch)")
	flags.IntVar(&maxBatch, "max-batch", config.DefaultMaxBatch,
		"Maximum batch size for the generated sequence")
	flags.BoolVar(&parallel, "parallel", false,
		"Run batches above the threshold on a bounded worker pool")
	flags.BoolVar(&skipSigning, "skip-signing", false,
		"Skip the signing sweep")
	flags.BoolVar(&skipVerification, "skip-verification", false,
		"Skip the verification sweep")
	flags.StringVar(&resultsDir, "results-dir", config.DefaultResultsDir,
		"Directory for persisted run reports")
	flags.StringVar(&rpcURL, "rpc-url", "",
		"Ethereum RPC endpoint for gas measurement (empty = disabled)")
	flags.StringVar(&registry, "registry", "",
		"KeyRegistry contract address for gas estimates")
	flags.BoolVar(&outputJSON, "json", false,
		"Print the run report as JSON instead of a table")

	return cmd
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.Config,
	outputJSON bool,
) error {
	logger.InfoContext(ctx, "starting benchmark",
		slog.Any("algorithms", cfg.Algorithms),
		slog.Any("batch_sizes", cfg.BatchSizes),
		slog.Bool("parallel", cfg.Parallel),
		slog.Bool("skip_signing", cfg.SkipSigning),
		slog.Bool("skip_verification", cfg.SkipVerification),
	)

	// Step 1: Resolve every algorithm up front. Unknown identifiers
	// are a configuration error for that algorithm only; the run
	// continues with the rest.
	signers := make([]scheme.Signer, 0, len(cfg.Algorithms))

	for _, name := range cfg.Algorithms {
		signer, err := scheme.Resolve(name)
		if err != nil {
			logger.Error("algorithm skipped",
				slog.String("algorithm", name),
				slog.String("error", err.Error()),
			)

			continue
		}

		signers = append(signers, signer)
	}

	if len(signers) == 0 {
		return fmt.Errorf("no usable algorithms configured")
	}

	// Step 2: Connect the optional gas meter. A configured but
	// unreachable endpoint is an environment failure and surfaces
	// before any measurement.
	var gas harness.GasMeter

	if cfg.RPCURL != "" {
		meter, err := chain.Dial(ctx, cfg.RPCURL, cfg.Registry, logger)
		if err != nil {
			return fmt.Errorf("gas measurement unavailable: %w", err)
		}

		gas = meter
	}

	// Step 3: Benchmark each algorithm sequentially so concurrent
	// sweeps cannot distort each other's timings.
	results := make([]harness.AlgorithmResult, 0, len(signers))

	for _, signer := range signers {
		h, err := harness.New(harness.Config{
			BatchSizes:       cfg.BatchSizes,
			Parallel:         cfg.Parallel,
			SkipSigning:      cfg.SkipSigning,
			SkipVerification: cfg.SkipVerification,
		}, signer, gas, logger)
		if err != nil {
			return fmt.Errorf("configure %s: %w", signer.Name(), err)
		}

		results = append(results, *h.Run(ctx))
	}

	// Step 4: Aggregate, persist, and print.
	runReport := report.Build(results)

	path, err := report.Save(cfg.ResultsDir, runReport)
	if err != nil {
		return fmt.Errorf("save run report: %w", err)
	}

	logger.InfoContext(ctx, "run report saved", slog.String("path", path))

	if outputJSON {
		if err := report.GenerateJSON(os.Stdout, runReport); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
	} else {
		if err := report.Generate(os.Stdout, runReport); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	// Individual batch or sweep failures are tolerated, but a run
	// that measured nothing is a failure.
	if runReport.Summaries() == 0 {
		return fmt.Errorf("no summaries produced for any algorithm")
	}

	logger.InfoContext(ctx, "benchmark complete",
		slog.Int("algorithms", runReport.TotalAlgorithms),
		slog.Int("summaries", runReport.Summaries()),
	)

	return nil
}
