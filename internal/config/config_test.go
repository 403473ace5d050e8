package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"LINGUIST_DB_DRIVER", "LINGUIST_DB_DSN", "GEMINI_API_KEY", "API_KEY", "REMINDER_HOUR", "REMINDER_ENABLED", "LINGUIST_OWNER_ID"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, DefaultDBDriver, cfg.Database.Driver)
	assert.Equal(t, DefaultDBDSN, cfg.Database.DSN)
	assert.Equal(t, DefaultReminderHour, cfg.Reminder.Hour)
	assert.True(t, cfg.Reminder.Enabled)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LINGUIST_DB_DRIVER", "postgres")
	t.Setenv("LINGUIST_DB_DSN", "postgres://localhost/linguist")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "secret")
	t.Setenv("REMINDER_HOUR", "7")
	t.Setenv("REMINDER_ENABLED", "false")
	t.Setenv("LINGUIST_OWNER_ID", "12345")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, 7, cfg.Reminder.Hour)
	assert.False(t, cfg.Reminder.Enabled)
	assert.Equal(t, int64(12345), cfg.Bot.OwnerID)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("LINGUIST_DB_DRIVER", "mysql")
	t.Setenv("REMINDER_HOUR", "25")
	t.Setenv("LINGUIST_OWNER_ID", "me")

	cfg := Load()
	assert.Equal(t, DefaultDBDriver, cfg.Database.Driver)
	assert.Equal(t, DefaultReminderHour, cfg.Reminder.Hour)
	assert.Zero(t, cfg.Bot.OwnerID)
	assert.Len(t, cfg.Warnings, 3)
}
