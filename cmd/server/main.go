package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/taskforge/api/config"
	"github.com/taskforge/api/internal/health"
	"github.com/taskforge/api/internal/infrastructure/postgres"
	ctxlog "github.com/taskforge/api/internal/log"
	"github.com/taskforge/api/internal/metrics"
	"github.com/taskforge/api/internal/ratelimit"
	"github.com/taskforge/api/internal/token"
	httptransport "github.com/taskforge/api/internal/transport/http"
	"github.com/taskforge/api/internal/transport/http/handler"
	"github.com/taskforge/api/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrations: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer)
	checker.Add("postgres", pool)

	window := time.Duration(cfg.RateWindowSeconds) * time.Second
	authLimiter, apiLimiter, err := newLimiters(cfg, window, checker)
	if err != nil {
		stop()
		log.Fatalf("rate limiter: %v", err)
	}

	secureCookies := cfg.Env == "production"
	dev := cfg.Env != "production"

	tokens := token.NewService([]byte(cfg.JWTAccessSecret), []byte(cfg.JWTRefreshSecret))

	// Auth
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, tokens)
	authHandler := handler.NewAuthHandler(authUsecase, logger, secureCookies, dev)

	// Tasks
	taskRepo := postgres.NewTaskRepository(pool)
	taskUsecase := usecase.NewTaskUsecase(taskRepo)
	taskHandler := handler.NewTaskHandler(taskUsecase, logger, dev)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, taskHandler, tokens, authLimiter, apiLimiter),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

// newLimiters picks the rate-limit backend: Redis when REDIS_URL is set so
// all replicas share one window, in-memory otherwise.
func newLimiters(cfg *config.Config, window time.Duration, checker *health.Checker) (ratelimit.Limiter, ratelimit.Limiter, error) {
	if cfg.RedisURL == "" {
		return ratelimit.NewMemory(cfg.AuthRateLimit, window),
			ratelimit.NewMemory(cfg.APIRateLimit, window), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	authLimiter := ratelimit.NewRedis(client, "ratelimit:auth", cfg.AuthRateLimit, window)
	apiLimiter := ratelimit.NewRedis(client, "ratelimit:api", cfg.APIRateLimit, window)
	checker.Add("redis", authLimiter)

	return authLimiter, apiLimiter, nil
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
