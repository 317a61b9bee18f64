// Package stats folds probe response times into a run summary.
package stats

import (
	"math"
	"time"
)

// Summary describes the response times of a run. StdDev is the population
// standard deviation.
type Summary struct {
	Count  int
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
}

// Accumulator collects samples in completion order. The zero value is ready
// to use.
type Accumulator struct {
	samples []time.Duration
}

func (a *Accumulator) Add(d time.Duration) {
	a.samples = append(a.samples, d)
}

func (a *Accumulator) Len() int {
	return len(a.samples)
}

// Samples returns a copy of the collected samples.
func (a *Accumulator) Samples() []time.Duration {
	out := make([]time.Duration, len(a.samples))
	copy(out, a.samples)
	return out
}

// Summary returns false when nothing was collected.
func (a *Accumulator) Summary() (Summary, bool) {
	return Summarize(a.samples)
}

// Summarize computes min, max, mean and population standard deviation.
// It returns false for an empty slice, where min and max are undefined.
func Summarize(samples []time.Duration) (Summary, bool) {
	if len(samples) == 0 {
		return Summary{}, false
	}

	s := Summary{Count: len(samples), Min: samples[0], Max: samples[0]}
	var sum float64
	for _, d := range samples {
		if d < s.Min {
			s.Min = d
		}
		if d > s.Max {
			s.Max = d
		}
		sum += float64(d)
	}
	n := float64(len(samples))
	mean := sum / n

	var sq float64
	for _, d := range samples {
		diff := float64(d) - mean
		sq += diff * diff
	}

	s.Mean = time.Duration(math.Round(mean))
	s.StdDev = time.Duration(math.Round(math.Sqrt(sq / n)))
	return s, true
}
