package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default settings
const (
	DefaultDBDriver     = "sqlite3"
	DefaultDBDSN        = "data/linguist.db"
	DefaultGeminiModel  = "gemini-3-flash-preview"
	DefaultReminderHour = 19
)

// Database holds storage settings
type Database struct {
	Driver string // sqlite3 or postgres
	DSN    string
}

// Bot holds chat front-end settings
type Bot struct {
	Token   string
	OwnerID int64 // the only user allowed to talk to the bot
}

// AI holds the grammar tutor settings
type AI struct {
	APIKey string
	Model  string
}

// Reminder holds practice reminder settings
type Reminder struct {
	Enabled bool
	Hour    int
}

// Config represents the application configuration
type Config struct {
	Database Database
	Bot      Bot
	AI       AI
	Reminder Reminder
	LogMode  string

	// Warnings collects values that were ignored while loading
	Warnings []string
}

// Load reads the configuration from the environment.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Database: Database{
			Driver: envOr("LINGUIST_DB_DRIVER", DefaultDBDriver),
			DSN:    envOr("LINGUIST_DB_DSN", DefaultDBDSN),
		},
		Bot: Bot{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		AI: AI{
			APIKey: firstEnv("GEMINI_API_KEY", "API_KEY"),
			Model:  envOr("GEMINI_MODEL", DefaultGeminiModel),
		},
		Reminder: Reminder{
			Enabled: os.Getenv("REMINDER_ENABLED") != "false",
			Hour:    DefaultReminderHour,
		},
		LogMode: envOr("LOG_MODE", "dev"),
	}

	switch cfg.Database.Driver {
	case "sqlite3", "postgres":
	default:
		cfg.warn("unsupported LINGUIST_DB_DRIVER " + cfg.Database.Driver + ", using " + DefaultDBDriver)
		cfg.Database.Driver = DefaultDBDriver
	}

	if raw := os.Getenv("LINGUIST_OWNER_ID"); raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			cfg.warn("invalid LINGUIST_OWNER_ID: " + raw)
		} else {
			cfg.Bot.OwnerID = id
		}
	}

	if raw := os.Getenv("REMINDER_HOUR"); raw != "" {
		if h, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && h >= 0 && h <= 23 {
			cfg.Reminder.Hour = h
		} else {
			cfg.warn("invalid REMINDER_HOUR: " + raw)
		}
	}

	return cfg
}

func (c *Config) warn(msg string) {
	c.Warnings = append(c.Warnings, msg)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
