package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/hamed0406/httping/internal/config"
	"github.com/hamed0406/httping/internal/domain"
	"github.com/hamed0406/httping/internal/logging"
	"github.com/hamed0406/httping/internal/notify"
	"github.com/hamed0406/httping/internal/probe"
	"github.com/hamed0406/httping/internal/report"
	"github.com/hamed0406/httping/internal/scheduler"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// exitError carries a status code out of RunE without printing anything.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type options struct {
	verbose      bool
	count        int
	wait         time.Duration
	bytes        int64
	timeout      time.Duration
	maxRedirects int
	strict       bool
	noColor      bool
	userAgent    string
	slackWebhook string
	alertWebhook string
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(config.FromEnv())
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	var ee *exitError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ee):
		return ee.code
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:   "httping [url] [flags]",
		Short: "Check whether a web resource is reachable, ping style",
		Long: `httping sends a HEAD request to a URL (falling back to GET when the
server rejects HEAD), follows redirects up to a limit and reports whether
the resource answered and how long it took. Without a URL it reads one
target per line from standard input; an empty line stops.`,
		Example: `  httping example.com
  httping https://example.com -c 5 -w 500ms
  httping -v --strict https://example.com/health
  echo example.com | httping`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case o.count < 0:
				return fmt.Errorf("--count must be >= 0")
			case o.wait <= 0:
				return fmt.Errorf("--wait must be > 0")
			case o.bytes <= 0:
				return fmt.Errorf("--bytes must be > 0")
			case o.timeout <= 0:
				return fmt.Errorf("--timeout must be > 0")
			case o.maxRedirects < 0:
				return fmt.Errorf("--max-redirects must be >= 0")
			}
			if len(args) == 1 {
				if _, err := probe.Normalize(args[0]); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			target := ""
			if len(args) == 1 {
				u, _ := probe.Normalize(args[0])
				target = u.String()
			}
			return run(ctx, cmd, cfg, o, target)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.Flags()
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Print method, status, size and redirects for every probe")
	f.IntVarP(&o.count, "count", "c", cfg.Count, "Number of probes, 0 to run until interrupted")
	f.DurationVarP(&o.wait, "wait", "w", cfg.Wait, "Pause between probes")
	f.Int64VarP(&o.bytes, "bytes", "b", cfg.Bytes, "Maximum body bytes read on the GET fallback")
	f.DurationVarP(&o.timeout, "timeout", "t", cfg.Timeout, "Timeout per request attempt")
	f.IntVar(&o.maxRedirects, "max-redirects", cfg.MaxRedirects, "Maximum redirects followed per attempt")
	f.BoolVar(&o.strict, "strict", false, "Count 4xx/5xx responses as unreachable")
	f.BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	f.StringVar(&o.userAgent, "user-agent", cfg.UserAgent, "User-Agent header (default httping/1.0)")
	f.StringVar(&o.slackWebhook, "slack-webhook", cfg.SlackWebhook, "Slack webhook for up/down alerts")
	f.StringVar(&o.alertWebhook, "alert-webhook", cfg.AlertWebhook, "Generic JSON webhook for up/down alerts")

	cmd.AddCommand(newServeCmd(cfg), newPreflightCmd(cfg))
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, cfg config.Config, o options, target string) error {
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	policy := probe.AnyResponse
	if o.strict {
		policy = probe.SuccessStatus
	}
	prober := probe.NewProber(logger, o.maxRedirects, policy)
	if o.userAgent != "" {
		prober.UserAgent = o.userAgent
	}
	checker := probe.NewReachability(prober, o.bytes, o.timeout)

	stdout := cmd.OutOrStdout()
	printer := report.NewPrinter(stdout, o.verbose, !o.noColor && isTerminal(stdout))

	runner := scheduler.NewRunner(logger, checker, target, o.count, o.wait)
	if target == "" {
		in := cmd.InOrStdin()
		var promptOut io.Writer
		if isTerminal(in) {
			promptOut = cmd.ErrOrStderr()
		}
		runner.Input = scheduler.NewLinePrompt(in, promptOut, "URL: ")
	}
	runner.OnResult = func(seq int, target string, r domain.ProbeResult) {
		printer.Result(seq, target, r)
		if o.verbose && r.ErrorKind == domain.KindDNSFailure {
			printer.DNS(probe.CheckDNS(ctx, target))
		}
	}
	if n := notify.FromURLs(o.slackWebhook, o.alertWebhook); n != nil {
		runner.Alerter = scheduler.NewAlerter(n, logger, scheduler.AlerterConfig{
			AlertOnRecovery: cfg.AlertOnRecovery,
			Cooldown:        cfg.AlertCooldown,
		})
	}

	out, err := runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("run_interrupted", zap.Int("attempts", out.Attempts))
			return &exitError{code: exitInterrupted}
		}
		return err
	}

	if o.count > 1 {
		label := target
		if label == "" {
			label = "httping"
		}
		sum, ok := out.Stats.Summary()
		printer.Summary(label, out.Attempts, out.Successes, sum, ok)
	}

	if code := exitCode(out); code != exitOK {
		return &exitError{code: code}
	}
	return nil
}

// exitCode is 0 when any probe succeeded or input ended before the first
// probe, 1 otherwise.
func exitCode(out scheduler.Outcome) int {
	if out.Successes > 0 || (out.EndedByUser && out.Attempts == 0) {
		return exitOK
	}
	return exitFailure
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
