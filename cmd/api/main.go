// @title                       User Service API
// @version                     1.0
// @description                 User accounts: registration, login, profiles and admin management.
// @host                        localhost:5000
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/user-service/internal/api"
	"github.com/99minutos/user-service/internal/api/handler"
	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/core/service"
	mongodb "github.com/99minutos/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/user-service/internal/infrastructure/db/redis"
	"github.com/99minutos/user-service/internal/infrastructure/kafka"
	"github.com/99minutos/user-service/internal/infrastructure/queue"
	"github.com/99minutos/user-service/internal/pkg/config"
	"github.com/99minutos/user-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("user-service stopped with error")
	}
	log.Info().Msg("user-service stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	proxies, err := cfg.ProxyNets()
	if err != nil {
		return err
	}

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	var loginLimiter ports.LoginLimiter
	if cfg.Login.MaxAttempts > 0 {
		loginLimiter = redisdb.NewAttemptLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
	} else {
		log.Warn().Msg("login throttling disabled")
	}

	// --- Audit trail ---
	sinks := queue.FanOut{mongodb.NewAuditRepository(db)}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		sinks = append(sinks, publisher)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka audit sink enabled")
	}
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, sinks, log)
	// Workers outlive the signal context so Shutdown can drain them.
	dispatcher.Start(context.WithoutCancel(ctx))

	// --- Services ---
	users := mongodb.NewUserRepository(db)
	tokens := service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	authService := service.NewAuthService(users, tokens, dispatcher, log)
	userService := service.NewUserService(users, dispatcher, log)

	e := api.NewRouter(api.Deps{
		Log:          log,
		Auth:         authService,
		Users:        userService,
		LoginLimiter: loginLimiter,
		Health: map[string]handler.Pinger{
			"mongo": handler.MongoPinger(db),
			"redis": handler.RedisPinger(rdb),
		},
		RequestTimeout: cfg.RequestTimeout,
		TrustedProxies: proxies,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("user-service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if derr := dispatcher.Shutdown(shutdownCtx); derr != nil {
			log.Warn().Err(derr).Msg("audit queue not fully drained")
		}
		return err
	})

	return g.Wait()
}
