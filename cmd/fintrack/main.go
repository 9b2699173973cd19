package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/export"
	httpapi "fintrack/internal/http"
	"fintrack/internal/scheduler"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
	"fintrack/internal/store/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// Amounts serialize as JSON numbers, matching the API's wire format.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to open record store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Record store ready", "backend", cfg.DataBackend)

	opts := httpapi.Options{LineSecret: cfg.LineChannelSecret}
	if cfg.SheetsConfigured() {
		exporter, err := export.New(ctx, export.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			slog.Error("Failed to set up sheet exporter", "error", err)
			os.Exit(1)
		}
		opts.Exporter = exporter
		slog.Info("Sheet export enabled", "spreadsheet", cfg.GoogleSpreadsheetID)
	}

	var publisher scheduler.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		slog.Info("Reminder queue connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	server := httpapi.NewServer(st, opts)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, cfg.Port)
	})
	if cfg.SchedulerEnabled {
		sched := scheduler.New(st, services.NewPoster(st), publisher, cfg.ReminderPreDays)
		g.Go(func() error {
			if err := sched.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Service stopped")
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch store.BackendType(cfg.DataBackend) {
	case store.SQLiteBackend:
		return sqlite.New(cfg.SQLiteDBPath)
	default:
		return memory.New(), nil
	}
}
