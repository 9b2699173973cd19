package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"fintrack/internal/store"
)

type Config struct {
	// HTTP server
	Port string

	// Record store
	DataBackend  string
	SQLiteDBPath string

	// Reminder queue
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Messaging providers
	TwilioAccountSID       string
	TwilioAuthToken        string
	TwilioWhatsAppFrom     string
	LineChannelAccessToken string
	LineChannelSecret      string

	// Breakdown export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Scheduler
	SchedulerEnabled bool
	ReminderPreDays  int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "3001"),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "reminders"),

		TwilioAccountSID:       getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:        getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom:     getEnv("TWILIO_WA_FROM", ""),
		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", "test-secret"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Breakdown"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		SchedulerEnabled: getEnvBool("SCHEDULER_ENABLED", true),
		ReminderPreDays:  getEnvInt("REMINDER_PRE_DAYS", 3),
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	backend := store.BackendType(c.DataBackend)
	if !backend.IsValid() {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [memory sqlite]", c.DataBackend))
	}
	if backend == store.SQLiteBackend && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if (c.TwilioAccountSID == "") != (c.TwilioAuthToken == "") {
		errs = append(errs, "TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN must be provided together")
	}
	if c.TwilioAccountSID != "" && c.TwilioWhatsAppFrom == "" {
		errs = append(errs, "TWILIO_WA_FROM is required when Twilio credentials are provided")
	}

	if c.GoogleSpreadsheetID != "" {
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errs = append(errs, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheet export")
		}
	}

	if c.ReminderPreDays < 0 || c.ReminderPreDays > 31 {
		errs = append(errs, fmt.Sprintf("invalid reminder pre-days %d: must be between 0 and 31", c.ReminderPreDays))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// TwilioConfigured reports whether WhatsApp delivery can be set up.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppFrom != ""
}

// LineConfigured reports whether LINE delivery can be set up.
func (c *Config) LineConfigured() bool {
	return c.LineChannelAccessToken != ""
}

// SheetsConfigured reports whether breakdown export can be set up.
func (c *Config) SheetsConfigured() bool {
	return c.GoogleSpreadsheetID != "" &&
		(c.GoogleServiceAccountJSON != "" || c.GoogleServiceAccountFile != "")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
