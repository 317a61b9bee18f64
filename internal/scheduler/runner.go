package scheduler

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/httping/internal/domain"
	"github.com/hamed0406/httping/internal/probe"
	"github.com/hamed0406/httping/internal/stats"
)

// Outcome is what a run leaves behind for the summary.
type Outcome struct {
	Attempts    int
	Successes   int
	Stats       stats.Accumulator // response times of reachable probes
	EndedByUser bool              // an empty line (or EOF) stopped the run
}

// Runner repeats a reachability check, one probe at a time.
type Runner struct {
	Logger  *zap.Logger
	Checker probe.Checker
	Target  string     // empty: read one target per attempt from Input
	Input   LineReader // required when Target is empty
	Count   int        // 0 runs until ctx is cancelled
	Wait    time.Duration
	Alerter *Alerter

	// OnResult is called for every completed attempt, seq starting at 1.
	OnResult func(seq int, target string, r domain.ProbeResult)
}

func NewRunner(logger *zap.Logger, checker probe.Checker, target string, count int, wait time.Duration) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if count < 0 {
		count = 0
	}
	return &Runner{
		Logger:  logger,
		Checker: checker,
		Target:  target,
		Count:   count,
		Wait:    wait,
	}
}

// Run returns ctx.Err() when cancelled during a wait, a read or a probe; the
// interrupted attempt is not reported and the partial outcome should not be
// summarized.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	var out Outcome

	for seq := 1; r.Count == 0 || seq <= r.Count; seq++ {
		if seq > 1 {
			if err := sleep(ctx, r.Wait); err != nil {
				return out, err
			}
		}

		target := r.Target
		if target == "" {
			line, err := r.readTarget(ctx)
			if err != nil {
				return out, err
			}
			if line == "" {
				out.EndedByUser = true
				r.Logger.Info("run_ended_by_input", zap.Int("attempts", out.Attempts))
				return out, nil
			}
			target = line
		}

		res := r.Checker.Check(ctx, target)
		if err := ctx.Err(); err != nil {
			return out, err
		}

		out.Attempts++
		if res.Reachable {
			out.Successes++
			if res.ResponseTime != nil {
				out.Stats.Add(*res.ResponseTime)
			}
		}

		fields := []zap.Field{
			zap.Int("seq", seq),
			zap.String("target", target),
			zap.Bool("reachable", res.Reachable),
			zap.String("method", res.Method),
			zap.Int("status", res.StatusCode),
			zap.Int64("size", res.Size),
		}
		if ms := res.LatencyMS(); ms != nil {
			fields = append(fields, zap.Float64("latency_ms", *ms))
		}
		if res.Error != "" {
			fields = append(fields, zap.String("error_kind", string(res.ErrorKind)), zap.String("error", res.Error))
		}
		r.Logger.Debug("probe_result", fields...)

		if r.OnResult != nil {
			r.OnResult(seq, target, res)
		}
		if r.Alerter != nil {
			r.Alerter.Observe(ctx, target, res)
		}
	}

	r.Logger.Info("run_finished",
		zap.Int("attempts", out.Attempts),
		zap.Int("successes", out.Successes),
	)
	return out, nil
}

func (r *Runner) readTarget(ctx context.Context) (string, error) {
	if r.Input == nil {
		return "", nil
	}
	line, err := r.Input.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
