package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/httping/internal/config"
	"github.com/hamed0406/httping/internal/httpapi"
	apimw "github.com/hamed0406/httping/internal/httpapi/middleware"
	"github.com/hamed0406/httping/internal/logging"
	"github.com/hamed0406/httping/internal/probe"
)

func newServeCmd(cfg config.Config) *cobra.Command {
	addr := cfg.Addr

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reachability probes over HTTP",
		Long: `serve exposes GET /api/probe?url=&count= (1-10 probes per request),
GET /healthz and GET /metrics. API keys, CORS origins and rate limits are
read from the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg, addr)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "Listen address")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, addr string) error {
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	prober := probe.NewProber(logger, cfg.MaxRedirects, probe.AnyResponse)
	if cfg.UserAgent != "" {
		prober.UserAgent = cfg.UserAgent
	}
	api := httpapi.NewServer(logger, probe.NewReachability(prober, cfg.Bytes, cfg.Timeout), cfg.Wait)

	srv := &http.Server{
		Addr: addr,
		Handler: api.Router(httpapi.RouterOptions{
			Keys:           apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys},
			AllowedOrigins: cfg.AllowedOrigins,
			PublicRPM:      cfg.PublicRPM,
			PublicBurst:    cfg.PublicBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api_listen", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	logger.Info("api_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
