package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/SarjuThakkar/TreehouseLibrary/pkg/config"
)

// Config holds all configuration for the library service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"LIBRARY_HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"library"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"library_secret"`
	PostgresDB   string `env:"LIBRARY_DB_NAME" envDefault:"library_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	DBMaxConns            int `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int `env:"DB_MAX_CONN_LIFETIME_MINS" envDefault:"60"`
	DBMaxConnIdleTimeMins int `env:"DB_MAX_CONN_IDLE_TIME_MINS" envDefault:"30"`

	// Redis (optional patron-search cache)
	RedisEnabled     bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost        string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort        int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword    string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB          int    `env:"REDIS_DB" envDefault:"0"`
	SearchCacheTTLMs int    `env:"SEARCH_CACHE_TTL_MS" envDefault:"30000"`

	// SMTP. When From or Password is empty, every send fails
	// deterministically and is logged as "failed"; in development mode a
	// logging mock sender is used instead.
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// Policy windows
	OverdueThresholdDays int `env:"OVERDUE_THRESHOLD_DAYS" envDefault:"21"`
	ReminderCadenceDays  int `env:"REMINDER_CADENCE_DAYS" envDefault:"7"`
	NewsletterWindowDays int `env:"NEWSLETTER_WINDOW_DAYS" envDefault:"30"`

	// Pacing delay between newsletter/blast recipients.
	SendPacingMs int `env:"SEND_PACING_MS" envDefault:"1000"`

	// Schedule: reminders run daily at ReminderHour:ReminderMinute, the
	// newsletter monthly on NewsletterDay at NewsletterHour:NewsletterMinute.
	ReminderHour     int `env:"REMINDER_HOUR" envDefault:"10"`
	ReminderMinute   int `env:"REMINDER_MINUTE" envDefault:"0"`
	NewsletterDay    int `env:"NEWSLETTER_DAY" envDefault:"1"`
	NewsletterHour   int `env:"NEWSLETTER_HOUR" envDefault:"11"`
	NewsletterMinute int `env:"NEWSLETTER_MINUTE" envDefault:"0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load library config: %w", err)
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.OverdueThresholdDays < 1 {
		return nil, fmt.Errorf("invalid overdue threshold: %d days", cfg.OverdueThresholdDays)
	}
	if cfg.ReminderCadenceDays < 1 {
		return nil, fmt.Errorf("invalid reminder cadence: %d days", cfg.ReminderCadenceDays)
	}
	if cfg.NewsletterWindowDays < 1 {
		return nil, fmt.Errorf("invalid newsletter window: %d days", cfg.NewsletterWindowDays)
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 || cfg.NewsletterHour < 0 || cfg.NewsletterHour > 23 {
		return nil, fmt.Errorf("schedule hours must be in 0-23")
	}
	if cfg.ReminderMinute < 0 || cfg.ReminderMinute > 59 || cfg.NewsletterMinute < 0 || cfg.NewsletterMinute > 59 {
		return nil, fmt.Errorf("schedule minutes must be in 0-59")
	}
	// Day 29-31 would skip short months.
	if cfg.NewsletterDay < 1 || cfg.NewsletterDay > 28 {
		return nil, fmt.Errorf("newsletter day must be in 1-28, got %d", cfg.NewsletterDay)
	}

	return cfg, nil
}

// OverdueThreshold returns the overdue window as a duration.
func (c *Config) OverdueThreshold() time.Duration {
	return time.Duration(c.OverdueThresholdDays) * 24 * time.Hour
}

// ReminderCadence returns the minimum reminder spacing as a duration.
func (c *Config) ReminderCadence() time.Duration {
	return time.Duration(c.ReminderCadenceDays) * 24 * time.Hour
}

// NewsletterWindow returns the new-arrivals window as a duration.
func (c *Config) NewsletterWindow() time.Duration {
	return time.Duration(c.NewsletterWindowDays) * 24 * time.Hour
}

// SendPacing returns the delay between consecutive recipients.
func (c *Config) SendPacing() time.Duration {
	return time.Duration(c.SendPacingMs) * time.Millisecond
}

// SearchCacheTTL returns the patron-search cache TTL.
func (c *Config) SearchCacheTTL() time.Duration {
	return time.Duration(c.SearchCacheTTLMs) * time.Millisecond
}
