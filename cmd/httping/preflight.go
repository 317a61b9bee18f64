package main

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hamed0406/httping/internal/config"
)

func newPreflightCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check the environment before running serve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !preflight(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr()) {
				return &exitError{code: exitFailure}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// preflight reports on the serve-mode configuration and returns false when
// any check fails. Warnings do not fail the run.
func preflight(cfg config.Config, out, errOut io.Writer) bool {
	passed := true
	fail := func(msg string) {
		fmt.Fprintln(errOut, "✖", msg)
		passed = false
	}
	warn := func(msg string) { fmt.Fprintln(errOut, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(out, "✔", msg) }

	if len(cfg.AdminAPIKeys) == 0 {
		warn("ADMIN_API_KEYS is empty; /metrics is open to everyone.")
	} else {
		ok(fmt.Sprintf("ADMIN_API_KEYS: %d key(s)", len(cfg.AdminAPIKeys)))
	}
	if len(cfg.PublicAPIKeys) == 0 && len(cfg.AdminAPIKeys) == 0 {
		warn("PUBLIC_API_KEYS is empty; /api/probe is open to everyone.")
	} else if len(cfg.PublicAPIKeys) > 0 {
		ok(fmt.Sprintf("PUBLIC_API_KEYS: %d key(s)", len(cfg.PublicAPIKeys)))
	}

	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		fail(fmt.Sprintf("API_ADDR %q is not host:port: %v", cfg.Addr, err))
	} else {
		ok("API_ADDR=" + cfg.Addr)
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS allows any origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if cfg.PublicRPM == 0 {
		warn("PUBLIC_RPM is 0; rate limiting is disabled.")
	} else {
		ok(fmt.Sprintf("rate limit %d/min, burst %d", cfg.PublicRPM, cfg.PublicBurst))
	}

	if cfg.SlackWebhook != "" {
		if u, err := url.Parse(cfg.SlackWebhook); err != nil || u.Scheme != "https" || u.Host == "" {
			fail("SLACK_WEBHOOK_URL is not an https URL.")
		} else {
			ok("SLACK_WEBHOOK_URL present")
		}
	}

	if cfg.AlertWebhook != "" {
		if u, err := url.Parse(cfg.AlertWebhook); err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			fail("ALERT_WEBHOOK_URL is not an http(s) URL.")
		} else {
			ok("ALERT_WEBHOOK_URL present")
		}
	}

	if passed {
		ok("preflight passed")
	}
	return passed
}
