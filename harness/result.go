package harness

import "time"

// BatchSummary is the immutable record produced for one
// (algorithm, operation, batch size) trial. Times are in seconds.
type BatchSummary struct {
	Operation    string  `json:"operation"`
	Algorithm    string  `json:"algorithm"`
	BatchSize    int     `json:"batch_size"`
	Parallel     bool    `json:"parallel"`
	TotalTime    float64 `json:"total_time"`
	AvgTimePerOp float64 `json:"avg_time_per_op"`
	OpCount      int     `json:"op_count"`
	Failures     int     `json:"failures,omitempty"`
	Throughput   float64 `json:"throughput"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`

	// Key generation only.
	PublicKeySize  int `json:"public_key_size,omitempty"`
	PrivateKeySize int `json:"private_key_size,omitempty"`

	// Signing only.
	SignatureSize int `json:"signature_size,omitempty"`

	// Verification only.
	ValidSignatures int `json:"valid_signatures,omitempty"`
	TotalSignatures int `json:"total_signatures,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// GasSummary holds the optional on-chain cost figures for one
// algorithm. Estimates are in gas units; GasPriceWei may be 0 when
// the endpoint does not report a price.
type GasSummary struct {
	RegistrationGas uint64 `json:"registration_gas"`
	SignatureLogGas uint64 `json:"signature_log_gas"`
	GasPriceWei     uint64 `json:"gas_price_wei,omitempty"`
	PublicKeySize   int    `json:"public_key_size"`
	SignatureSize   int    `json:"signature_size"`
}

// AlgorithmResult aggregates the sweeps for one algorithm. A sweep
// slice has one entry per batch size that produced at least one
// successful sample; failed sizes are omitted, not null-filled.
type AlgorithmResult struct {
	Algorithm     string         `json:"algorithm"`
	Timestamp     time.Time      `json:"timestamp"`
	BatchSizes    []int          `json:"batch_sizes"`
	Parallel      bool           `json:"parallel"`
	KeyGeneration []BatchSummary `json:"key_generation,omitempty"`
	Signing       []BatchSummary `json:"signing,omitempty"`
	Verification  []BatchSummary `json:"verification,omitempty"`
	Gas           *GasSummary    `json:"gas,omitempty"`
}

// Summaries reports the total number of batch summaries across all
// sweeps; a result with zero summaries contributes nothing to a run.
func (r *AlgorithmResult) Summaries() int {
	return len(r.KeyGeneration) + len(r.Signing) + len(r.Verification)
}

// summarize folds a batch run and its reduced statistics into the
// serializable record.
func summarize(algorithm string, run BatchRun, stats Stats) BatchSummary {
	return BatchSummary{
		Operation:    string(run.Kind),
		Algorithm:    algorithm,
		BatchSize:    run.BatchSize,
		Parallel:     run.Parallel,
		TotalTime:    run.TotalElapsed.Seconds(),
		AvgTimePerOp: stats.Mean,
		OpCount:      run.Successes,
		Failures:     run.Failures,
		Throughput:   throughput(run.Successes, run.TotalElapsed),
		Mean:         stats.Mean,
		Median:       stats.Median,
		StdDev:       stats.StdDev,
		Min:          stats.Min,
		Max:          stats.Max,
		Timestamp:    time.Now(),
	}
}
