package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mizutori/nosread/internal/application/reader"
	"github.com/mizutori/nosread/internal/config"
	"github.com/mizutori/nosread/internal/relay"
	eventsmemory "github.com/mizutori/nosread/pkg/adapters/events/memory"
	eventsredis "github.com/mizutori/nosread/pkg/adapters/events/redis"
	feedmemory "github.com/mizutori/nosread/pkg/adapters/feed/memory"
	feedredis "github.com/mizutori/nosread/pkg/adapters/feed/redis"
	"github.com/mizutori/nosread/pkg/adapters/metrics/prometheus"
	grpcapi "github.com/mizutori/nosread/pkg/api/grpc"
	httpapi "github.com/mizutori/nosread/pkg/api/http"
	"github.com/mizutori/nosread/pkg/api/websocket"
	"github.com/mizutori/nosread/pkg/ports"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting nosread",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("relay_url", cfg.Relay.URL))

	sessionID := uuid.New().String()

	// Initialize Redis client when a backend needs it
	var redisClient *goredis.Client
	if cfg.NeedsRedis() {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize adapters
	var feedStore ports.FeedStore
	if cfg.FeedBackend == "redis" {
		feedStore = feedredis.NewFeedStore(redisClient, sessionID, cfg.Redis.FeedTTL, logger)
	} else {
		feedStore = feedmemory.NewFeedStore()
	}

	var eventBus ports.EventBus
	if cfg.EventsBackend == "redis" {
		eventBus = eventsredis.NewStreamsEventBus(
			redisClient,
			"nosread-feed",
			fmt.Sprintf("nosread-%d", os.Getpid()),
			logger,
		)
	} else {
		eventBus = eventsmemory.NewEventBus()
	}

	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	validator := reader.NewValidator()

	feedReader := reader.NewReader(
		relay.NewDialer(),
		feedStore,
		eventBus,
		metricsCollector,
		validator,
		logger,
	)

	if cfg.Relay.AutoSubscribe {
		feedReader.AutoSubscribe(cfg.DefaultFilter())
	}

	// Initialize API servers
	httpServer := httpapi.NewServer(&httpapi.Config{
		Port:   cfg.HTTPPort,
		Reader: feedReader,
		Logger: logger,
	})

	// Add the UI stream handler to the HTTP server
	wsHandler := websocket.NewHandler(eventBus, logger)
	httpServer.SetupFeedStream(wsHandler)

	grpcServer, err := grpcapi.NewServer(&grpcapi.Config{
		Port:   cfg.GRPCPort,
		Reader: feedReader,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("failed to create gRPC server", zap.Error(err))
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := grpcServer.Start(); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	// Open the relay connection; the outcome arrives as status
	// events
	if err := feedReader.Connect(context.Background(), cfg.Relay.URL); err != nil {
		logger.Fatal("failed to start relay connection", zap.Error(err))
	}

	logger.Info("nosread started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("feed_backend", cfg.FeedBackend),
		zap.String("events_backend", cfg.EventsBackend))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := grpcServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("gRPC server shutdown error", zap.Error(err))
	}

	if err := feedReader.Shutdown(shutdownCtx); err != nil {
		logger.Error("reader shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("nosread shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
