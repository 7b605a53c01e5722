// Package harness drives signature operations across batch sizes and
// reduces the per-operation timings into comparable summaries.
package harness

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// OpKind tags which operation a batch measures.
type OpKind string

const (
	OpKeyGeneration OpKind = "key_generation"
	OpSigning       OpKind = "signing"
	OpVerification  OpKind = "verification"
)

const (
	// parallelThreshold is the batch size above which the executor
	// switches to the worker pool when parallel mode is requested.
	parallelThreshold = 4

	// workerCap bounds the pool regardless of batch size, emulating a
	// small fixed number of concurrent clients rather than saturating
	// the host.
	workerCap = 4
)

// Op is one unit of work. It returns the size in bytes of the payload
// it produced (0 when size is not meaningful for the operation).
type Op func() (payloadBytes int, err error)

// Factory produces the unit of work for index i of a batch.
type Factory func(i int) Op

// Sample records one successful timed operation.
type Sample struct {
	Elapsed      time.Duration
	PayloadBytes int
}

// BatchRun holds the raw output of one batch execution. Samples are an
// unordered multiset in parallel mode; nothing downstream may depend
// on their order.
type BatchRun struct {
	Kind         OpKind
	BatchSize    int
	Parallel     bool
	Samples      []Sample
	TotalElapsed time.Duration
	Successes    int
	Failures     int
}

// runTimed executes one unit of work under the monotonic clock and
// reports whether it succeeded. Errors and panics are logged with the
// operation context and never propagate; a failed unit must not abort
// its batch.
func runTimed(logger *slog.Logger, kind OpKind, index int, op Op) (s Sample, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("operation panicked",
				slog.String("op", string(kind)),
				slog.Int("index", index),
				slog.Any("panic", r),
			)

			s, ok = Sample{}, false
		}
	}()

	start := time.Now()
	payload, err := op()
	elapsed := time.Since(start)

	if err != nil {
		logger.Error("operation failed",
			slog.String("op", string(kind)),
			slog.Int("index", index),
			slog.String("error", err.Error()),
		)

		return Sample{}, false
	}

	return Sample{Elapsed: elapsed, PayloadBytes: payload}, true
}

// RunBatch executes batchSize units of work produced by factory and
// collects the successful samples. The total elapsed time brackets the
// whole dispatch+collect loop independently of the per-unit timings,
// so throughput reflects real wall-clock concurrency gains.
func RunBatch(
	logger *slog.Logger,
	kind OpKind,
	factory Factory,
	batchSize int,
	parallel bool,
) (BatchRun, error) {
	if batchSize < 1 {
		return BatchRun{}, fmt.Errorf(
			"batch size must be >= 1, got %d", batchSize,
		)
	}

	run := BatchRun{
		Kind:      kind,
		BatchSize: batchSize,
		Parallel:  parallel && batchSize > parallelThreshold,
	}

	start := time.Now()

	if run.Parallel {
		run.Samples = runPool(logger, kind, factory, batchSize)
	} else {
		run.Samples = runSequential(logger, kind, factory, batchSize)
	}

	run.TotalElapsed = time.Since(start)
	run.Successes = len(run.Samples)
	run.Failures = batchSize - run.Successes

	return run, nil
}

func runSequential(
	logger *slog.Logger,
	kind OpKind,
	factory Factory,
	batchSize int,
) []Sample {
	samples := make([]Sample, 0, batchSize)

	for i := 0; i < batchSize; i++ {
		sample, ok := runTimed(logger, kind, i, factory(i))
		if !ok {
			continue
		}

		samples = append(samples, sample)
	}

	return samples
}

// runPool fans the batch out across a bounded worker pool. Workers
// pull indices from a jobs channel; completion order is unspecified.
func runPool(
	logger *slog.Logger,
	kind OpKind,
	factory Factory,
	batchSize int,
) []Sample {
	workers := workerCap
	if batchSize < workers {
		workers = batchSize
	}

	jobs := make(chan int, batchSize)
	results := make(chan Sample, batchSize)

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				sample, ok := runTimed(logger, kind, i, factory(i))
				if ok {
					results <- sample
				}
			}
		}()
	}

	for i := 0; i < batchSize; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(results)

	samples := make([]Sample, 0, batchSize)
	for sample := range results {
		samples = append(samples, sample)
	}

	return samples
}
