package harness

import "log/slog"

// runSweep runs one batch per configured batch size, in ascending
// order, and collects a summary for every size that produced at least
// one successful sample. A failed or skipped size never stops the
// sweep; scaling behavior is characterized across whatever sizes
// remain reachable.
//
// available caps the usable batch sizes for fixture-backed sweeps
// (signing, verification); pass a negative value for sweeps that
// synthesize their own inputs.
func (h *Harness) runSweep(
	kind OpKind,
	available int,
	factoryFor func(size int) Factory,
) []BatchSummary {
	logger := h.logger.With(slog.String("op", string(kind)))
	summaries := make([]BatchSummary, 0, len(h.cfg.BatchSizes))

	for _, size := range h.cfg.BatchSizes {
		if available >= 0 && size > available {
			logger.Warn("skipping batch size, insufficient fixtures",
				slog.Int("batch_size", size),
				slog.Int("fixtures", available),
			)

			continue
		}

		logger.Info("running batch", slog.Int("batch_size", size))

		run, err := RunBatch(logger, kind, factoryFor(size), size, h.cfg.Parallel)
		if err != nil {
			logger.Error("batch aborted",
				slog.Int("batch_size", size),
				slog.String("error", err.Error()),
			)

			continue
		}

		if run.Successes == 0 {
			logger.Warn("batch produced no successful samples",
				slog.Int("batch_size", size),
				slog.Int("failures", run.Failures),
			)

			continue
		}

		stats, err := Reduce(run.Samples)
		if err != nil {
			logger.Error("reduce failed",
				slog.Int("batch_size", size),
				slog.String("error", err.Error()),
			)

			continue
		}

		summary := summarize(h.signer.Name(), run, stats)
		summaries = append(summaries, summary)

		logger.Info("batch complete",
			slog.Int("batch_size", size),
			slog.Float64("total_time_s", summary.TotalTime),
			slog.Float64("throughput_per_s", summary.Throughput),
			slog.Int("failures", run.Failures),
		)
	}

	return summaries
}
