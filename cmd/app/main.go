package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"settlement/cmd"
	httpin "settlement/internal/adapters/in/http"
	"settlement/internal/adapters/out/postgres"
	redisstore "settlement/internal/adapters/out/redis"
	"settlement/internal/pkg/metrics"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("settlement stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configs, err := cmd.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(configs)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(configs)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	if configs.DBAutoMigrate {
		if err := postgres.Migrate(gormDB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema migrated")
	}

	var idempotency httpin.IdempotencyStore
	if configs.RedisAddr != "" {
		client, err := redisstore.Connect(ctx, configs.RedisAddr, configs.RedisPassword, configs.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		idempotency = redisstore.NewIdempotencyStore(client, configs.IdempotencyTTL, configs.IdempotencyPendingTTL)
	} else {
		logger.Warn("SETTLEMENT_REDIS_ADDR is empty, Idempotency-Key headers are ignored")
	}

	docs, err := httpin.LoadAPIDocs(ctx)
	if err != nil {
		return err
	}

	m := metrics.New()
	app, err := cmd.NewCompositionRoot(configs, gormDB, m, logger)
	if err != nil {
		return err
	}

	e := httpin.NewRouter(app.CreateServer(), httpin.RouterOptions{
		Docs:           docs,
		Idempotency:    idempotency,
		Metrics:        m,
		RequestTimeout: configs.RequestTimeout,
		HealthCheck:    sqlDB.PingContext,
	})
	e.Logger.SetLevel(echoLogLevel(configs.LogLevel))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		logger.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownGracePeriod)
		defer cancel()
		logger.Info("shutting down http server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(configs cmd.Config) (*slog.Logger, error) {
	level, err := configs.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(configs.LogFormat, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", "settlement"), nil
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormpg.Open(configs.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(configs.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(configs.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(configs.DBConnMaxLifetime)

	return gormDB, nil
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
