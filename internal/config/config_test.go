package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 21, cfg.OverdueThresholdDays)
	assert.Equal(t, 7, cfg.ReminderCadenceDays)
	assert.Equal(t, 30, cfg.NewsletterWindowDays)
	assert.Equal(t, 10, cfg.ReminderHour)
	assert.Equal(t, 0, cfg.ReminderMinute)
	assert.Equal(t, 1, cfg.NewsletterDay)
	assert.Equal(t, 11, cfg.NewsletterHour)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LIBRARY_HTTP_PORT", "9090")
	t.Setenv("OVERDUE_THRESHOLD_DAYS", "14")
	t.Setenv("REMINDER_CADENCE_DAYS", "3")
	t.Setenv("SEND_PACING_MS", "250")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://library.example.com,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 14*24*time.Hour, cfg.OverdueThreshold())
	assert.Equal(t, 3*24*time.Hour, cfg.ReminderCadence())
	assert.Equal(t, 250*time.Millisecond, cfg.SendPacing())
	assert.Equal(t, []string{"https://library.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("LIBRARY_HTTP_PORT", "70000")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("OVERDUE_THRESHOLD_DAYS", "0")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_InvalidScheduleHour(t *testing.T) {
	t.Setenv("REMINDER_HOUR", "24")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_NewsletterDayCappedAt28(t *testing.T) {
	t.Setenv("NEWSLETTER_DAY", "31")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestDurationHelpers(t *testing.T) {
	cfg := &Config{
		OverdueThresholdDays: 21,
		ReminderCadenceDays:  7,
		NewsletterWindowDays: 30,
		SendPacingMs:         1000,
		SearchCacheTTLMs:     30000,
	}

	assert.Equal(t, 21*24*time.Hour, cfg.OverdueThreshold())
	assert.Equal(t, 7*24*time.Hour, cfg.ReminderCadence())
	assert.Equal(t, 30*24*time.Hour, cfg.NewsletterWindow())
	assert.Equal(t, time.Second, cfg.SendPacing())
	assert.Equal(t, 30*time.Second, cfg.SearchCacheTTL())
}
