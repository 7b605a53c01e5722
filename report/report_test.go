package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pqsig/sigbench/harness"
)

func sampleResults() []harness.AlgorithmResult {
	return []harness.AlgorithmResult{
		{
			Algorithm:  "dilithium3",
			Timestamp:  time.Now(),
			BatchSizes: []int{1, 2, 4},
			KeyGeneration: []harness.BatchSummary{
				{
					Operation:      "key_generation",
					Algorithm:      "dilithium3",
					BatchSize:      1,
					TotalTime:      0.010,
					AvgTimePerOp:   0.010,
					OpCount:        1,
					Throughput:     100,
					Mean:           0.010,
					Median:         0.010,
					Min:            0.010,
					Max:            0.010,
					PublicKeySize:  1952,
					PrivateKeySize: 4032,
				},
				{
					Operation:    "key_generation",
					Algorithm:    "dilithium3",
					BatchSize:    4,
					TotalTime:    0.040,
					AvgTimePerOp: 0.010,
					OpCount:      4,
					Throughput:   100,
				},
			},
			Signing: []harness.BatchSummary{
				{
					Operation:     "signing",
					Algorithm:     "dilithium3",
					BatchSize:     2,
					TotalTime:     2.5,
					OpCount:       2,
					Throughput:    0.8,
					SignatureSize: 3309,
				},
			},
			Gas: &harness.GasSummary{
				RegistrationGas: 480000,
				SignatureLogGas: 210000,
				PublicKeySize:   1952,
				SignatureSize:   3309,
			},
		},
	}
}

func TestBuild(t *testing.T) {
	report := Build(sampleResults())

	if report.TotalAlgorithms != 1 {
		t.Errorf("total_algorithms = %d, want 1", report.TotalAlgorithms)
	}
	if report.TestDate.IsZero() {
		t.Error("test_date not set")
	}
	if report.Summaries() != 3 {
		t.Errorf("summaries = %d, want 3", report.Summaries())
	}
}

func TestSummariesEmptyRun(t *testing.T) {
	report := Build([]harness.AlgorithmResult{{Algorithm: "dilithium3"}})

	if report.Summaries() != 0 {
		t.Errorf("summaries = %d, want 0", report.Summaries())
	}
}

func TestGenerateJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	if err := GenerateJSON(&buf, Build(sampleResults())); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	for _, key := range []string{"test_date", "total_algorithms", "results"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing top-level field %q", key)
		}
	}

	results := decoded["results"].([]any)
	first := results[0].(map[string]any)

	if first["algorithm"] != "dilithium3" {
		t.Errorf("algorithm = %v, want dilithium3", first["algorithm"])
	}
	if _, ok := first["key_generation"]; !ok {
		t.Error("missing key_generation sweep")
	}
	if _, ok := first["verification"]; ok {
		t.Error("empty verification sweep must be omitted, not null-filled")
	}
}

func TestSaveWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()

	report := Build(sampleResults())

	path, err := Save(dir, report)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "batch_operations_") ||
		!strings.HasSuffix(base, ".json") {
		t.Errorf("unexpected results filename %q", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved report: %v", err)
	}

	var decoded RunReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("saved report is not valid JSON: %v", err)
	}

	if decoded.TotalAlgorithms != 1 {
		t.Errorf("total_algorithms = %d, want 1", decoded.TotalAlgorithms)
	}
}

func TestGenerateTable(t *testing.T) {
	var buf bytes.Buffer

	if err := Generate(&buf, Build(sampleResults())); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	out := buf.String()

	for _, want := range []string{
		"DILITHIUM3",
		"Key Generation",
		"Signing",
		"| 4 |",
		"100.00/s",
		"Key registration | 480000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	// No verification summaries, no verification table.
	if strings.Contains(out, "**Verification**") {
		t.Error("verification table rendered with no data")
	}
}

func TestGenerateEmpty(t *testing.T) {
	if err := Generate(&bytes.Buffer{}, RunReport{}); err == nil {
		t.Error("expected error for empty report")
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(0.0105); got != "10.50ms" {
		t.Errorf("formatSeconds(0.0105) = %q, want 10.50ms", got)
	}
	if got := formatSeconds(2.5); got != "2.50s" {
		t.Errorf("formatSeconds(2.5) = %q, want 2.50s", got)
	}
}
