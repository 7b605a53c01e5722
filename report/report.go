// Package report aggregates sweep results into the persisted run
// report and formats comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pqsig/sigbench/harness"
)

// RunReport is the top-level unit of persistence: one timestamped
// record covering every algorithm tested in a run.
type RunReport struct {
	TestDate        time.Time                 `json:"test_date"`
	TotalAlgorithms int                       `json:"total_algorithms"`
	Results         []harness.AlgorithmResult `json:"results"`
}

// Build wraps the algorithm results into a RunReport.
func Build(results []harness.AlgorithmResult) RunReport {
	return RunReport{
		TestDate:        time.Now(),
		TotalAlgorithms: len(results),
		Results:         results,
	}
}

// Summaries reports the total number of batch summaries in the run. A
// run with zero summaries produced no usable measurement.
func (r RunReport) Summaries() int {
	total := 0
	for i := range r.Results {
		total += r.Results[i].Summaries()
	}

	return total
}

// GenerateJSON writes the report as indented JSON to w.
func GenerateJSON(w io.Writer, report RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(report)
}

// Save persists the report under dir using the timestamped naming
// convention batch_operations_<YYYYMMDD_HHMMSS>.json and returns the
// written path. The directory is created if needed.
func Save(dir string, report RunReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir %s: %w", dir, err)
	}

	name := fmt.Sprintf(
		"batch_operations_%s.json",
		report.TestDate.Format("20060102_150405"),
	)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create results file %s: %w", path, err)
	}

	if err := GenerateJSON(f, report); err != nil {
		f.Close()

		return "", fmt.Errorf("write results file %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close results file %s: %w", path, err)
	}

	return path, nil
}

// Generate writes a markdown scalability table for the given report.
func Generate(w io.Writer, report RunReport) error {
	if len(report.Results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Batch Scalability Results")
	fmt.Fprintln(w)

	for i := range report.Results {
		result := &report.Results[i]

		fmt.Fprintf(w, "### %s\n\n", strings.ToUpper(result.Algorithm))

		writeSweepTable(w, "Key Generation", result.KeyGeneration)
		writeSweepTable(w, "Signing", result.Signing)
		writeSweepTable(w, "Verification", result.Verification)

		if result.Gas != nil {
			fmt.Fprintln(w, "| Gas | Estimate |")
			fmt.Fprintln(w, "|-----|----------|")
			fmt.Fprintf(w, "| Key registration | %d |\n",
				result.Gas.RegistrationGas)
			fmt.Fprintf(w, "| Signature log | %d |\n",
				result.Gas.SignatureLogGas)
			fmt.Fprintln(w)
		}
	}

	return nil
}

func writeSweepTable(w io.Writer, title string, sweep []harness.BatchSummary) {
	if len(sweep) == 0 {
		return
	}

	fmt.Fprintf(w, "**%s**\n\n", title)
	fmt.Fprintln(w, "| Batch | Total | Avg/Op | Throughput | Std Dev |")
	fmt.Fprintln(w, "|-------|-------|--------|------------|---------|")

	for _, s := range sweep {
		fmt.Fprintf(w, "| %d | %s | %s | %.2f/s | %s |\n",
			s.BatchSize,
			formatSeconds(s.TotalTime),
			formatSeconds(s.AvgTimePerOp),
			s.Throughput,
			formatSeconds(s.StdDev),
		)
	}

	fmt.Fprintln(w)
}

// formatSeconds renders an internal seconds value for display,
// switching to milliseconds below one second.
func formatSeconds(secs float64) string {
	if secs < 1 {
		return fmt.Sprintf("%.2fms", secs*1000)
	}

	return fmt.Sprintf("%.2fs", secs)
}
