package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/FoodGram/config"
	appmodel "github.com/sifan077/FoodGram/internal/app/model"
	apprepository "github.com/sifan077/FoodGram/internal/app/repository"
	appserver "github.com/sifan077/FoodGram/internal/app/server"
	appservice "github.com/sifan077/FoodGram/internal/app/service"
	"github.com/sifan077/FoodGram/internal/http/middleware"
	"github.com/sifan077/FoodGram/internal/infra/logger"
	infraNATS "github.com/sifan077/FoodGram/internal/infra/nats"
	infraPostgres "github.com/sifan077/FoodGram/internal/infra/postgres"
	infraPrometheus "github.com/sifan077/FoodGram/internal/infra/prometheus"
	infraRedis "github.com/sifan077/FoodGram/internal/infra/redis"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("Failed to load config", zap.Error(err))
	}

	isDev := cfg.App.IsDevelopment()
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
	defer func() { _ = logger.Sync() }()

	log.Info("Configuration loaded successfully",
		zap.String("env", cfg.App.Env),
		zap.String("base_url", cfg.App.BaseURL),
		zap.String("postgres_user", cfg.Postgres.User),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB, appmodel.All()...); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()
	log.Info("Connected to Postgres successfully")

	var redisClient *redis.Client
	if client, err := infraRedis.NewClient(ctx, cfg.Redis); err != nil {
		log.Warn("Redis unavailable, continuing without rate limiting", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
		log.Info("Connected to Redis successfully")
	}

	var js nats.JetStreamContext
	if natsConn, jsCtx, err := infraNATS.Connect(cfg.NATS); err != nil {
		log.Warn("NATS unavailable, link visits will not be recorded", zap.Error(err))
	} else {
		js = jsCtx
		defer natsConn.Drain()
		log.Info("Connected to NATS successfully")
	}

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	filter := appservice.NewBloomTokenFilter(0, 0)
	refresher := appservice.NewTokenFilterRefresher(log, apprepository.NewShortLinkRepository(gormDB), filter, 0)
	if err := refresher.Refresh(ctx); err != nil {
		log.Fatal("Failed to load short link tokens", zap.Error(err))
	}
	refresher.Start()
	defer refresher.Stop()

	if js != nil {
		consumer := appservice.NewVisitConsumer(js, log, apprepository.NewLinkVisitRepository(gormDB))
		if err := consumer.Start(ctx); err != nil {
			log.Fatal("Failed to start link visit consumer", zap.Error(err))
		}
		defer func() {
			cancel()
			<-consumer.Done()
		}()
	}

	server, err := appserver.New(appserver.Dependencies{
		Logger:    log,
		DB:        gormDB,
		Postgres:  pool,
		Redis:     redisClient,
		JetStream: js,
		Filter:    filter,
		Options: appserver.Options{
			BaseURL:              cfg.App.BaseURL,
			ShoppingListFilename: cfg.App.ShoppingListFilename,
			Secret:               []byte(cfg.Auth.Secret),
			TokenTTL:             cfg.Auth.TokenTTL,
			AllowedOrigins:       cfg.App.AllowedOrigins,
			RateLimit: middleware.RateLimitConfig{
				MaxRequests: cfg.RateLimit.MaxRequests,
				Window:      cfg.RateLimit.Window,
			},
		},
	})
	if err != nil {
		log.Fatal("Failed to build HTTP server", zap.Error(err))
	}

	go func() {
		if err := server.Listen(cfg.App.Addr); err != nil {
			log.Error("Fiber server exited", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shut down HTTP server", zap.Error(err))
	}
}
