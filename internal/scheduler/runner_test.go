package scheduler

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/httping/internal/domain"
)

// --- fakes ---

type scriptedChecker struct {
	mu      sync.Mutex
	results []domain.ProbeResult
	targets []string
	calls   []time.Time
}

func (s *scriptedChecker) Check(ctx context.Context, target string) domain.ProbeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = append(s.targets, target)
	s.calls = append(s.calls, time.Now())
	if len(s.results) == 0 {
		return domain.ProbeResult{Method: "HEAD", ErrorKind: domain.KindConnectionRefused, Error: "connection refused"}
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r
}

func ok(d time.Duration) domain.ProbeResult {
	return domain.ProbeResult{Reachable: true, Method: "HEAD", StatusCode: 200, ResponseTime: &d}
}

func down() domain.ProbeResult {
	return domain.ProbeResult{Method: "HEAD", ErrorKind: domain.KindTimeout, Error: "timed out after 1s"}
}

// --- tests ---

func TestRunner_AllFailing(t *testing.T) {
	chk := &scriptedChecker{}
	r := NewRunner(zap.NewNop(), chk, "https://example.com", 5, time.Millisecond)

	var seen []int
	r.OnResult = func(seq int, _ string, _ domain.ProbeResult) { seen = append(seen, seq) }

	out, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Attempts != 5 || out.Successes != 0 {
		t.Fatalf("want 5 attempts and 0 successes, got %+v", out)
	}
	if out.Stats.Len() != 0 {
		t.Fatalf("want no samples, got %d", out.Stats.Len())
	}
	if _, ok := out.Stats.Summary(); ok {
		t.Fatalf("summary must be undefined without samples")
	}
	if len(seen) != 5 || seen[0] != 1 || seen[4] != 5 {
		t.Fatalf("unexpected sequence numbers %v", seen)
	}
}

func TestRunner_CollectsReachableTimesOnly(t *testing.T) {
	chk := &scriptedChecker{results: []domain.ProbeResult{
		ok(10 * time.Millisecond),
		down(),
		ok(30 * time.Millisecond),
	}}
	r := NewRunner(zap.NewNop(), chk, "https://example.com", 3, 0)

	out, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Successes != 2 {
		t.Fatalf("want 2 successes, got %d", out.Successes)
	}
	got := out.Stats.Samples()
	if len(got) != 2 || got[0] != 10*time.Millisecond || got[1] != 30*time.Millisecond {
		t.Fatalf("unexpected samples %v", got)
	}
}

func TestRunner_WaitsBetweenAttemptsOnly(t *testing.T) {
	chk := &scriptedChecker{}
	wait := 150 * time.Millisecond
	r := NewRunner(zap.NewNop(), chk, "https://example.com", 2, wait)

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	finished := time.Now()

	if len(chk.calls) != 2 {
		t.Fatalf("want 2 checks, got %d", len(chk.calls))
	}
	if gap := chk.calls[1].Sub(chk.calls[0]); gap < wait {
		t.Fatalf("want at least %v between attempts, got %v", wait, gap)
	}
	if tail := finished.Sub(chk.calls[1]); tail >= wait/2 {
		t.Fatalf("run should not wait after the final attempt, took %v", tail)
	}
}

func TestRunner_CancelDuringWait(t *testing.T) {
	chk := &scriptedChecker{}
	r := NewRunner(zap.NewNop(), chk, "https://example.com", 3, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.OnResult = func(int, string, domain.ProbeResult) { cancel() }

	start := time.Now()
	out, err := r.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("cancellation should interrupt the wait")
	}
	if out.Attempts != 1 || len(chk.calls) != 1 {
		t.Fatalf("pending repetition must not run, got %d attempts", out.Attempts)
	}
}

type cancellingChecker struct{ cancel context.CancelFunc }

func (c *cancellingChecker) Check(ctx context.Context, target string) domain.ProbeResult {
	c.cancel()
	return domain.ProbeResult{Method: "HEAD", ErrorKind: domain.KindCanceled, Error: "probe canceled"}
}

func TestRunner_CancelDuringProbeIsNotReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRunner(zap.NewNop(), &cancellingChecker{cancel: cancel}, "https://example.com", 0, time.Second)
	reported := false
	r.OnResult = func(int, string, domain.ProbeResult) { reported = true }

	out, err := r.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if reported || out.Attempts != 0 {
		t.Fatalf("interrupted probe must not be reported: %+v", out)
	}
}

func TestRunner_PromptedTargetsAndEmptyLine(t *testing.T) {
	chk := &scriptedChecker{results: []domain.ProbeResult{ok(time.Millisecond)}}
	r := NewRunner(zap.NewNop(), chk, "", 5, 0)
	r.Input = NewLinePrompt(strings.NewReader("  a.example  \n\nb.example\n"), nil, "")

	out, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.EndedByUser {
		t.Fatalf("want run ended by empty line")
	}
	if out.Attempts != 1 || len(chk.targets) != 1 || chk.targets[0] != "a.example" {
		t.Fatalf("want one check of a.example, got %v", chk.targets)
	}
}

func TestRunner_PromptEOFEndsRun(t *testing.T) {
	chk := &scriptedChecker{}
	r := NewRunner(zap.NewNop(), chk, "", 0, 0)
	r.Input = NewLinePrompt(strings.NewReader("x.example"), nil, "")

	out, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.EndedByUser || out.Attempts != 1 {
		t.Fatalf("want one attempt then a clean stop, got %+v", out)
	}
}

func TestRunner_CancelDuringRead(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	chk := &scriptedChecker{}
	r := NewRunner(zap.NewNop(), chk, "", 1, 0)
	r.Input = NewLinePrompt(pr, nil, "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := r.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
	if len(chk.calls) != 0 {
		t.Fatalf("no probe expected")
	}
}
