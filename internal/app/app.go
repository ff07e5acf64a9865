package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/config"
	handler "github.com/SarjuThakkar/TreehouseLibrary/internal/handler/http"
	"github.com/SarjuThakkar/TreehouseLibrary/internal/repository"
	"github.com/SarjuThakkar/TreehouseLibrary/internal/repository/postgres"
	redisrepo "github.com/SarjuThakkar/TreehouseLibrary/internal/repository/redis"
	"github.com/SarjuThakkar/TreehouseLibrary/internal/scheduler"
	"github.com/SarjuThakkar/TreehouseLibrary/internal/sender"
	"github.com/SarjuThakkar/TreehouseLibrary/internal/sender/mock"
	smtpsender "github.com/SarjuThakkar/TreehouseLibrary/internal/sender/smtp"
	"github.com/SarjuThakkar/TreehouseLibrary/internal/service"
	"github.com/SarjuThakkar/TreehouseLibrary/migrations"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/database"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/health"
	"github.com/SarjuThakkar/TreehouseLibrary/pkg/middleware"
)

// Job names registered with the scheduler.
const (
	jobOverdueCheck = "overdue_check"
	jobNewsletter   = "monthly_newsletter"
)

// App wires together all dependencies and runs the library service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	scheduler  *scheduler.Scheduler
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	database.RegisterPoolMetrics(pool, "library")

	// Repositories.
	bookRepo := postgres.NewBookRepository(pool)
	patronRepo := postgres.NewPatronRepository(pool)
	checkoutRepo := postgres.NewCheckoutRepository(pool)
	ratingRepo := postgres.NewRatingRepository(pool)
	reminderLogRepo := postgres.NewReminderLogRepository(pool)

	// Optional Redis cache for patron autocomplete.
	var (
		redisClient *redis.Client
		searchCache repository.PatronSearchCache
	)
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		searchCache = redisrepo.NewPatronSearchCache(redisClient, cfg.SearchCacheTTL(), logger)
		logger.Info("patron search cache enabled",
			slog.String("host", cfg.RedisHost),
			slog.Int("port", cfg.RedisPort),
		)
	}

	// Email sender. In development, missing SMTP credentials fall back to a
	// mock that logs instead of sending. Everywhere else the SMTP sender is
	// wired regardless: without credentials every Send fails, so reminder
	// and newsletter runs record failed attempts instead of phantom sends.
	var emailSender sender.Sender
	switch {
	case cfg.SMTPFrom != "" && cfg.SMTPPassword != "":
		emailSender = smtpsender.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword, logger)
	case cfg.Environment == "development":
		logger.Warn("SMTP credentials not configured, using mock email sender")
		emailSender = mock.NewSender(logger)
	default:
		logger.Error("SMTP credentials not configured, email sends will fail")
		emailSender = smtpsender.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword, logger)
	}

	// Services.
	libraryService := service.NewLibraryService(
		bookRepo, patronRepo, checkoutRepo, ratingRepo, reminderLogRepo, searchCache, logger)
	reminderService := service.NewReminderService(
		checkoutRepo, patronRepo, bookRepo, reminderLogRepo, emailSender,
		cfg.OverdueThreshold(), cfg.ReminderCadence(), logger)
	newsletterService := service.NewNewsletterService(
		bookRepo, patronRepo, emailSender,
		cfg.NewsletterWindow(), cfg.SendPacing(), logger)

	// Scheduled jobs.
	sched := scheduler.New(logger)
	sched.Register(jobOverdueCheck,
		scheduler.Daily(cfg.ReminderHour, cfg.ReminderMinute), reminderService.Run)
	sched.Register(jobNewsletter,
		scheduler.Monthly(cfg.NewsletterDay, cfg.NewsletterHour, cfg.NewsletterMinute), newsletterService.Run)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// HTTP router.
	router := handler.NewRouter(
		libraryService, reminderService, newsletterService, healthHandler,
		middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		logger,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		scheduler:  sched,
		httpServer: httpServer,
	}, nil
}

// Run starts the scheduler and HTTP server and blocks until the context is
// canceled.
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Start(ctx)

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.scheduler.Stop()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
