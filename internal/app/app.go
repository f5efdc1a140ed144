package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"market/internal/ads"
	"market/internal/bot"
	"market/internal/cache"
	"market/internal/config"
	"market/internal/service"
	"market/internal/storage"
	"market/internal/storage/ch"
	"market/internal/storage/postgres"
	"market/internal/storage/stubs"
)

// App represents the application
type App struct {
	config      *config.Config
	logger      *zap.Logger
	level       zap.AtomicLevel
	db          storage.Storage
	redis       *redis.Client
	impressions *ch.ImpressionLog
	bot         *bot.Bot
	broadcaster *bot.Broadcaster
	server      *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app := &App{config: cfg}
	if err := app.initLogger(); err != nil {
		return nil, err
	}
	app.logger.Info("Starting marketplace bot...", zap.String("env", cfg.Env))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Startup)
	defer cancel()

	if err := app.initDatabase(ctx); err != nil {
		app.close()
		return nil, err
	}
	if err := app.initCache(ctx); err != nil {
		app.close()
		return nil, err
	}
	if err := app.initImpressions(ctx); err != nil {
		app.close()
		return nil, err
	}
	if err := app.initBot(ctx); err != nil {
		app.close()
		return nil, err
	}
	app.initHTTPServer()

	return app, nil
}

func (a *App) initLogger() error {
	zcfg := zap.NewDevelopmentConfig()
	if a.config.Env == "prod" {
		zcfg = zap.NewProductionConfig()
	}
	a.level = zcfg.Level

	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger
	return nil
}

// initDatabase connects the store and applies the stored logging switch
func (a *App) initDatabase(ctx context.Context) error {
	var db storage.Storage
	if a.config.UseMockDB {
		a.logger.Info("Using mock database")
		db = stubs.NewMockDB()
	} else {
		a.logger.Info("Connecting to PostgreSQL")
		pg, err := postgres.New(ctx, a.config.Postgres.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		db = pg
	}
	a.db = db

	if err := db.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.logger.Info("Database initialized successfully")

	// The logging switch is stored with the bot settings
	settings, err := db.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bot settings: %w", err)
	}
	if !settings.Logging {
		a.level.SetLevel(zapcore.WarnLevel)
	}
	return nil
}

// initCache creates the Redis client. A Redis outage does not stop startup.
func (a *App) initCache(ctx context.Context) error {
	rdb, err := cache.Connect(ctx, a.config.Redis.URL, a.logger.Named("cache"))
	if err != nil {
		return err
	}
	a.redis = rdb
	return nil
}

// initImpressions opens the ClickHouse impression log when it is configured
func (a *App) initImpressions(ctx context.Context) error {
	chCfg := a.config.ClickHouse
	if !chCfg.Enabled() {
		a.logger.Info("ClickHouse is not configured, impressions are not recorded")
		return nil
	}

	a.logger.Info("Connecting to ClickHouse",
		zap.String("host", chCfg.Host),
		zap.Int("port", chCfg.Port),
		zap.String("database", chCfg.Database),
		zap.Bool("tls", chCfg.UseTLS),
	)
	impressions, err := ch.NewImpressionLog(chCfg.Host, chCfg.Port, chCfg.Database, chCfg.User, chCfg.Password, chCfg.UseTLS)
	if err != nil {
		return fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	a.impressions = impressions

	if err := impressions.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize impression log: %w", err)
	}
	return nil
}

// initBot wires the services and creates the Telegram bot
func (a *App) initBot(ctx context.Context) error {
	feedCache := cache.New(a.redis, a.db, cache.Options{
		CategoriesTTL: a.config.Cache.CategoriesTTL,
		ListingsTTL:   a.config.Cache.ListingsTTL,
	}, a.logger.Named("cache"))

	// Start from a cold cache so nothing written by a previous version is served
	feedCache.InvalidateListings(ctx)
	feedCache.InvalidateCategories(ctx)

	deps := bot.Deps{
		Users:       a.db,
		Ads:         ads.NewRotator(a.db, a.db, a.logger.Named("rotation")),
		AdManager:   ads.NewService(a.db, a.logger.Named("ads")),
		Marketplace: service.NewListings(a.db, feedCache, a.logger.Named("listings")),
		Limiter:     feedCache,
	}
	if a.impressions != nil {
		deps.Recorder = a.impressions
		deps.Stats = a.impressions
	}

	telegramBot, err := bot.NewBot(a.config.Telegram.Token, deps, bot.Options{
		AdminIDs:   a.config.Telegram.AdminIDs,
		PageSize:   a.config.Feed.PageSize,
		AdEvery:    a.config.Feed.AdEvery,
		RateLimit:  a.config.RateLimit.Limit,
		RateWindow: a.config.RateLimit.Window,
	}, a.logger.Named("bot"))
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.logger.Info("Bot created successfully", zap.Int64s("admin_ids", a.config.Telegram.AdminIDs))

	a.bot = telegramBot
	a.broadcaster = bot.NewBroadcaster(telegramBot, a.config.Broadcast.Interval, a.logger.Named("broadcast"))
	return nil
}

// router serves health checks, metrics and the webhook endpoint
func (a *App) router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		mode := "polling"
		if a.config.Telegram.WebhookMode {
			mode = "webhook"
		}
		fmt.Fprintf(w, "Marketplace bot is running (mode: %s)", mode)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/telegram-webhook", a.bot.WebhookHandler(ctx))

	return r
}

func (a *App) initHTTPServer() {
	a.server = &http.Server{
		Addr:         a.config.HTTP.Addr(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.server.Handler = a.router(ctx)
	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if a.config.Telegram.WebhookMode {
		a.logger.Info("Starting bot in WEBHOOK mode", zap.String("webhook_url", a.config.Telegram.WebhookURL))
		if err := a.bot.StartWebhook(a.config.Telegram.WebhookURL); err != nil {
			_ = a.Shutdown()
			return fmt.Errorf("failed to setup webhook: %w", err)
		}
	} else {
		go func() {
			if err := a.bot.Start(ctx); err != nil {
				a.logger.Error("Polling stopped", zap.Error(err))
				stop()
			}
		}()
	}

	go a.broadcaster.Run(ctx)

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down...")
	case runErr = <-serverErr:
		a.logger.Error("HTTP server error", zap.Error(runErr))
	}

	if err := a.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Timeouts.Shutdown)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	err := a.close()
	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return err
}

// close releases the backends opened so far
func (a *App) close() error {
	var errs []error
	if a.impressions != nil {
		if err := a.impressions.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close clickhouse: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if len(errs) > 0 {
		a.logger.Error("Error closing backends", zap.Error(errors.Join(errs...)))
	}
	return errors.Join(errs...)
}
