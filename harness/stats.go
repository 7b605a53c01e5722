package harness

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Stats summarizes a set of elapsed-time samples. All values are in
// seconds; millisecond conversion belongs to the presentation layer.
type Stats struct {
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Reduce computes summary statistics over the samples. The input must
// be non-empty; callers guard zero-success batches one layer up.
// StdDev is the sample standard deviation and is defined as 0 for
// fewer than two samples.
func Reduce(samples []Sample) (Stats, error) {
	if len(samples) == 0 {
		return Stats{}, fmt.Errorf("reduce requires at least one sample")
	}

	secs := make([]float64, len(samples))
	for i, s := range samples {
		secs[i] = s.Elapsed.Seconds()
	}

	sort.Float64s(secs)

	var sum float64
	for _, v := range secs {
		sum += v
	}

	mean := sum / float64(len(secs))

	stats := Stats{
		Mean:   mean,
		Median: median(secs),
		Min:    secs[0],
		Max:    secs[len(secs)-1],
	}

	if len(secs) > 1 {
		var sq float64
		for _, v := range secs {
			d := v - mean
			sq += d * d
		}

		stats.StdDev = math.Sqrt(sq / float64(len(secs)-1))
	}

	return stats, nil
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}

	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// throughput returns successful operations per second of wall-clock
// time, 0 when no time elapsed.
func throughput(successes int, totalElapsed time.Duration) float64 {
	secs := totalElapsed.Seconds()
	if secs <= 0 {
		return 0
	}

	return float64(successes) / secs
}
