package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/api"
	"github.com/goplay/staff-portal/internal/api/handler"
	"github.com/goplay/staff-portal/internal/core/service"
	mongodb "github.com/goplay/staff-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/goplay/staff-portal/internal/infrastructure/db/redis"
	"github.com/goplay/staff-portal/internal/infrastructure/queue"
	"github.com/goplay/staff-portal/internal/infrastructure/security"
	"github.com/goplay/staff-portal/internal/pkg/config"
	"github.com/goplay/staff-portal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "staff-portal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "staff-portal",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Open(ctx, redisdb.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	hasher := security.NewBcryptHasher(cfg.Auth.HashSalt, cfg.Auth.BcryptCost)
	userRepo := mongodb.NewUserRepository(db)

	dispatcher := queue.NewDispatcher(
		cfg.Resets.Workers,
		queue.NewLogDeliverer(logger.Component(log, "reset_notices")),
		log,
	)
	dispatcher.Start(ctx)

	users := service.NewUserService(userRepo, hasher, dispatcher, log)
	sessions := service.NewSessionService(
		userRepo,
		hasher,
		redisdb.NewRevocationList(rdb),
		cfg.Auth.JWTSecret,
		cfg.Auth.SessionTTL,
		log,
	)
	employees := service.NewEmployeeService(
		mongodb.NewEmployeeRepository(db),
		mongodb.NewSkillRepository(db),
		userRepo,
		log,
	)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := users.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	e, err := api.NewRouter(api.Dependencies{
		Users:     users,
		Sessions:  sessions,
		Employees: employees,
		Readiness: map[string]handler.Pinger{
			"mongodb": handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) }),
			"redis":   handler.PingFunc(func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) }),
		},
	}, api.Config{
		CookieName:       cfg.Auth.CookieName,
		SecureCookie:     !cfg.IsDevelopment(),
		LoginRedirectURL: cfg.Auth.LoginRedirectURL,
		AllowOrigins:     cfg.HTTP.AllowOrigins,
		Registerer:       prometheus.DefaultRegisterer,
		Gatherer:         prometheus.DefaultGatherer,
	}, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	return shutdown(e.Shutdown, cfg, log)
}

func shutdown(fn func(context.Context) error, cfg *config.Config, log zerolog.Logger) error {
	log.Info().Dur("timeout", cfg.HTTP.ShutdownTimeout).Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
