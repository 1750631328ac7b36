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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/lingoflow/internal"
	"codeberg.org/snonux/lingoflow/internal/cli"
	"codeberg.org/snonux/lingoflow/internal/stubserver"
)

type stubFlags struct {
	addr     string
	delay    time.Duration
	logLevel string
	failures map[string]int
}

func main() {
	flags := &stubFlags{}

	rootCmd := &cobra.Command{
		Use:   "lingoflow-stub",
		Short: "Local stand-in for the translation and analysis service",
		Long: `lingoflow-stub serves the /api1 and /api2 endpoints with canned,
deterministic answers so the client can be exercised without the real
models.

Examples:
  lingoflow-stub
  lingoflow-stub --addr 127.0.0.1:5050 --delay 2s
  lingoflow-stub --fail /api2/translate=500`,
		Version: internal.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.addr, "addr", "127.0.0.1:5000", "Listen address")
	rootCmd.Flags().DurationVar(&flags.delay, "delay", 0, "Simulated processing delay per request")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringToIntVar(&flags.failures, "fail", nil, "Force a status code for a path (path=status)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, flags *stubFlags) error {
	logger, err := cli.NewLogger(flags.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if flags.logLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	config := stubserver.DefaultConfig()
	config.ProcessingDelay = flags.delay
	config.Failures = flags.failures
	config.Logger = logger

	srv := &http.Server{
		Addr:              flags.addr,
		Handler:           stubserver.NewRouter(config),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("stub server listening", "addr", flags.addr, "delay", flags.delay)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stub server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Infow("shutting down stub server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
