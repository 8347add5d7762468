package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/example/appointment-reminder/internal/application"
	"github.com/example/appointment-reminder/internal/compressor"
	"github.com/example/appointment-reminder/internal/config"
	httptransport "github.com/example/appointment-reminder/internal/http"
	"github.com/example/appointment-reminder/internal/logging"
	"github.com/example/appointment-reminder/internal/scheduler"
)

func main() {
	app := &cli.App{
		Name:  "reminders",
		Usage: "Record appointments and surface reminders for the next 70 minutes.",
		Commands: []*cli.Command{
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Path to a YAML configuration file."},
			&cli.IntFlag{Name: "port", Usage: "HTTP port (overrides configuration)."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if c.IsSet("port") {
				cfg.HTTPPort = c.Int("port")
			}

			logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store := application.NewAppointmentStoreWithLogger(newCompressor(cfg, logger), uuid.NewString, time.Now, logger)

	if cfg.SweepSchedule != "" {
		job, err := scheduler.NewSweepJob(cfg.SweepSchedule, store, logger)
		if err != nil {
			return err
		}
		if err := job.Start(ctx); err != nil {
			return err
		}
		defer func() { <-job.Stop().Done() }()
	} else {
		logger.Info("background sweep disabled")
	}

	appointments := httptransport.NewAppointmentHandler(store, time.Now, logger)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Appointments: appointments,
		Middleware:   []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Leaves room for a compressor call at its full timeout.
		WriteTimeout: cfg.CompressorTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reminder API listening", "addr", server.Addr, "compression_enabled", cfg.CompressionEnabled())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server encountered error: %w", err)
	}
	return nil
}

func newCompressor(cfg config.Config, logger *slog.Logger) application.ContextCompressor {
	if !cfg.CompressionEnabled() {
		logger.Warn("no compressor API key configured, enrichment disabled")
		return compressor.Disabled{}
	}
	return compressor.NewClient(compressor.Config{
		BaseURL: cfg.CompressorURL,
		APIKey:  cfg.CompressorAPIKey,
		Timeout: cfg.CompressorTimeout,
	}, logger)
}
