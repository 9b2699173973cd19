// The reminder worker drains the reminder queue and delivers each job
// over its subscription's messaging channel.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/messaging"
	"fintrack/internal/reminder"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL is required for the reminder worker")
		os.Exit(1)
	}

	dispatcher := messaging.NewDispatcher()
	if cfg.TwilioConfigured() {
		dispatcher.Register(core.ChannelWhatsApp,
			messaging.NewTwilioWhatsApp(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom))
		slog.Info("WhatsApp delivery enabled")
	}
	if cfg.LineConfigured() {
		dispatcher.Register(core.ChannelLine,
			messaging.NewLinePush(cfg.LineChannelAccessToken))
		slog.Info("LINE delivery enabled")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Reminder worker started", "queue", cfg.AMQPQueue)
	err = client.ConsumeReminders(ctx, func(job reminder.Job) error {
		text, err := job.Text()
		if err != nil {
			return err
		}
		return dispatcher.Send(ctx, job.Channel, job.Contact, text)
	})
	if err != nil && ctx.Err() == nil {
		slog.Error("Consumer stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Reminder worker stopped")
}
