package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"voxpage/internal/config"
	"voxpage/internal/httpserver"
	"voxpage/internal/httpserver/deps"
	"voxpage/internal/jobs"
	"voxpage/internal/logger"
	"voxpage/internal/metrics"
	"voxpage/internal/redis"
	"voxpage/internal/scheduler"
	"voxpage/internal/shortener"
	"voxpage/internal/sources/events"
	"voxpage/internal/speech"
	redisstore "voxpage/internal/store/redis"
	"voxpage/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	clickMirror *scheduler.ClickMirror
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	// Optional Redis click telemetry - fail fast when explicitly configured
	var redisClient *goredis.Client
	var clickCache *redisstore.Cache
	if cfg.RedisAddr != "" {
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDialTimeout,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client
		clickCache = redisstore.NewCache(client)
	} else {
		loggerClient.Info("redis not configured, click telemetry mirror disabled")
	}

	// Recognized event names
	catalog := events.Default()
	if cfg.EventsFile != "" {
		loaded, err := events.Load(cfg.EventsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load events catalog: %w", err)
		}
		catalog = loaded
		loggerClient.Info("events catalog loaded",
			logger.String("file", cfg.EventsFile),
			logger.Int("events", len(catalog.Names())))
	}

	// TTS engine is constructed lazily on the first job.
	provider := speech.NewProvider(func() (speech.Engine, error) {
		return speech.NewCommandEngine(cfg.TTSCommand, cfg.TTSVoice)
	})

	jobRegistry, err := jobs.NewRegistry(provider, cfg.AudioDir, cfg.TTSWorkers, loggerClient)
	if err != nil {
		return nil, err
	}

	linkService := shortener.NewService(cfg.LinksFile, clickCache, loggerClient)
	metricService := metrics.NewService(cfg.MetricsFile, loggerClient)

	var clickMirror *scheduler.ClickMirror
	if clickCache != nil {
		clickMirror = scheduler.NewClickMirror(linkService, clickCache, loggerClient, cfg.ClickMirrorInterval)
	}

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		Jobs:           jobRegistry,
		Links:          linkService,
		Metrics:        metricService,
		Events:         catalog,
		BaseURL:        cfg.BaseURL,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		clickMirror: clickMirror,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting voxpage v%s on %s", version.Version, a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.clickMirror != nil {
		if err := a.clickMirror.Start(ctx); err != nil {
			return fmt.Errorf("failed to start click mirror: %w", err)
		}
		a.logger.Info("click mirror started",
			logger.Duration("interval", a.cfg.ClickMirrorInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.clickMirror != nil {
		a.clickMirror.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}

	a.logger.Info("✅ voxpage stopped cleanly")
	return nil
}
