package stats

import (
	"math"
	"testing"
	"time"
)

func ms(v float64) time.Duration { return time.Duration(v * float64(time.Millisecond)) }

func TestSummarize_KnownValues(t *testing.T) {
	s, ok := Summarize([]time.Duration{ms(10), ms(20), ms(30)})
	if !ok {
		t.Fatalf("want summary for non-empty samples")
	}
	if s.Count != 3 || s.Min != ms(10) || s.Max != ms(30) || s.Mean != ms(20) {
		t.Fatalf("unexpected summary %+v", s)
	}
	want := math.Sqrt(200.0/3.0) * float64(time.Millisecond)
	if math.Abs(float64(s.StdDev)-want) > 1 {
		t.Fatalf("stddev = %v, want ~%v", s.StdDev, time.Duration(want))
	}
}

func TestSummarize_PopulationNotSample(t *testing.T) {
	// sample stddev of {0, 2} is ~1.414, population stddev is exactly 1
	s, _ := Summarize([]time.Duration{0, 2 * time.Second})
	if s.StdDev != time.Second {
		t.Fatalf("want population stddev 1s, got %v", s.StdDev)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if _, ok := Summarize(nil); ok {
		t.Fatalf("want ok=false for no samples")
	}
	var a Accumulator
	if _, ok := a.Summary(); ok {
		t.Fatalf("want ok=false for empty accumulator")
	}
}

func TestSummarize_SingleSample(t *testing.T) {
	s, ok := Summarize([]time.Duration{ms(42)})
	if !ok || s.Min != ms(42) || s.Max != ms(42) || s.Mean != ms(42) || s.StdDev != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestAccumulator_KeepsOrderAndCopies(t *testing.T) {
	var a Accumulator
	a.Add(ms(3))
	a.Add(ms(1))
	a.Add(ms(2))
	got := a.Samples()
	if a.Len() != 3 || got[0] != ms(3) || got[1] != ms(1) || got[2] != ms(2) {
		t.Fatalf("samples out of order: %v", got)
	}
	got[0] = 0
	if a.Samples()[0] != ms(3) {
		t.Fatalf("Samples must return a copy")
	}
	s, _ := a.Summary()
	if s.Min != ms(1) || s.Max != ms(3) {
		t.Fatalf("unexpected min/max %+v", s)
	}
}
