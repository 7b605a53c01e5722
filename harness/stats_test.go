package harness

import (
	"math"
	"testing"
	"time"
)

func secondsSamples(secs ...float64) []Sample {
	samples := make([]Sample, len(secs))
	for i, s := range secs {
		samples[i] = Sample{Elapsed: time.Duration(s * float64(time.Second))}
	}

	return samples
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReduceKnownValues(t *testing.T) {
	stats, err := Reduce(secondsSamples(1, 2, 3, 4))
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if !almostEqual(stats.Mean, 2.5) {
		t.Errorf("mean = %v, want 2.5", stats.Mean)
	}
	if !almostEqual(stats.Median, 2.5) {
		t.Errorf("median = %v, want 2.5", stats.Median)
	}
	// Sample standard deviation of {1,2,3,4}.
	if !almostEqual(stats.StdDev, math.Sqrt(5.0/3.0)) {
		t.Errorf("std_dev = %v, want %v", stats.StdDev, math.Sqrt(5.0/3.0))
	}
	if !almostEqual(stats.Min, 1) || !almostEqual(stats.Max, 4) {
		t.Errorf("min/max = %v/%v, want 1/4", stats.Min, stats.Max)
	}
}

func TestReduceOddCountMedian(t *testing.T) {
	stats, err := Reduce(secondsSamples(5, 1, 3))
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if !almostEqual(stats.Median, 3) {
		t.Errorf("median = %v, want 3", stats.Median)
	}
}

func TestReduceSingleSample(t *testing.T) {
	stats, err := Reduce(secondsSamples(0.25))
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if stats.StdDev != 0 {
		t.Errorf("std_dev of single sample = %v, want exactly 0", stats.StdDev)
	}
	if math.IsNaN(stats.StdDev) {
		t.Error("std_dev must never be NaN")
	}
	if !almostEqual(stats.Mean, 0.25) || !almostEqual(stats.Median, 0.25) {
		t.Errorf("mean/median = %v/%v, want 0.25/0.25", stats.Mean, stats.Median)
	}
}

func TestReduceEmptyInput(t *testing.T) {
	if _, err := Reduce(nil); err == nil {
		t.Error("expected error for empty sample list")
	}
}

func TestReduceOrderIndependent(t *testing.T) {
	a, err := Reduce(secondsSamples(0.1, 0.4, 0.2, 0.3))
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	b, err := Reduce(secondsSamples(0.3, 0.2, 0.4, 0.1))
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if a != b {
		t.Errorf("stats depend on sample order: %+v vs %+v", a, b)
	}
}

func TestThroughputIdentity(t *testing.T) {
	got := throughput(5, 2*time.Second)
	if !almostEqual(got, 2.5) {
		t.Errorf("throughput = %v, want 2.5", got)
	}

	if throughput(5, 0) != 0 {
		t.Error("throughput with zero elapsed must be 0")
	}
}
