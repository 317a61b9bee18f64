package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/httping/internal/domain"
	"github.com/hamed0406/httping/internal/notify"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
}

// Alerter notifies when the reachability of a run's target flips. Down alerts
// are rate limited by Cooldown; recovery alerts are not.
type Alerter struct {
	notifier notify.Notifier
	logger   *zap.Logger
	cfg      AlerterConfig
	now      func() time.Time

	lastState  *bool
	lastSentAt time.Time
}

func NewAlerter(n notify.Notifier, logger *zap.Logger, cfg AlerterConfig) *Alerter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Alerter{notifier: n, logger: logger, cfg: cfg, now: time.Now}
}

// Observe records one result and sends an alert if the state changed.
func (a *Alerter) Observe(ctx context.Context, target string, r domain.ProbeResult) {
	now := a.now()
	up := r.Reachable

	stateChanged := a.lastState == nil || *a.lastState != up
	cooled := a.lastSentAt.IsZero() || now.Sub(a.lastSentAt) >= a.cfg.Cooldown

	downAlert := stateChanged && !up && cooled
	// the first result of a run is not a recovery
	recoveryAlert := stateChanged && up && a.lastState != nil && a.cfg.AlertOnRecovery

	if stateChanged {
		a.lastState = &up
	}
	if !downAlert && !recoveryAlert {
		return
	}

	title := "🔴 Target DOWN"
	if up {
		title = "🟢 Target RECOVERED"
	}
	if err := a.notifier.Send(ctx, title, alertText(target, r, now)); err != nil {
		a.logger.Warn("alert_send_error", zap.String("target", target), zap.Error(err))
		return
	}
	a.lastSentAt = now
}

func alertText(target string, r domain.ProbeResult, at time.Time) string {
	httpTxt := "n/a"
	if r.StatusCode != 0 {
		httpTxt = fmt.Sprintf("%s %d", r.Method, r.StatusCode)
	}
	latencyTxt := "n/a"
	if ms := r.LatencyMS(); ms != nil {
		latencyTxt = fmt.Sprintf("%.0f ms", *ms)
	}
	reason := r.Error
	if reason == "" {
		reason = "reachable"
	}
	return fmt.Sprintf(
		"URL: %s\nHTTP: %s\nLatency: %s\nReason: %s\nChecked: %s",
		target, httpTxt, latencyTxt, reason, at.Format(time.RFC3339),
	)
}
