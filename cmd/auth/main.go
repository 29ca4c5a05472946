package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"session_auth/internal/auth"
	"session_auth/internal/config"
	"session_auth/internal/http_server/cookies"
	"session_auth/internal/http_server/handlers/activate"
	"session_auth/internal/http_server/handlers/login"
	"session_auth/internal/http_server/handlers/logout"
	"session_auth/internal/http_server/handlers/me"
	"session_auth/internal/http_server/handlers/refresh"
	"session_auth/internal/http_server/handlers/register"
	updateInfo "session_auth/internal/http_server/handlers/update_user_info"
	"session_auth/internal/lib/jwt"
	sl "session_auth/internal/lib/logger/sl"
	"session_auth/internal/lib/metrics"
	"session_auth/internal/middleware/authenticate"
	rateLimit "session_auth/internal/middleware/ratelimit"
	"session_auth/internal/rabbitmq"
	"session_auth/internal/storage/postgres"
	"session_auth/internal/storage/redis"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.MustLoad(config.Path())

	log := setupLogger(cfg.Env)

	log.Info("starting auth service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", sl.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	sessions, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect redis", sl.Err(err))
		os.Exit(1)
	}
	defer sessions.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", sl.Err(err))
		os.Exit(1)
	}
	defer msgBroker.Close()

	authService := auth.New(log, storage, storage, sessions, msgBroker, jwt.NewSigner(nil), cfg.Tokens)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)

	router := setupRouter(log, cfg, authService, sessions, registry)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", sl.Err(err))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", sl.Err(err))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

type pinger interface {
	Ping(ctx context.Context) error
}

func setupRouter(
	log *slog.Logger,
	cfg *config.Config,
	authService *auth.Auth,
	sessions pinger,
	registry *prometheus.Registry,
) *chi.Mux {
	validate := validator.New()

	cookieOpts := cookies.Options{
		AccessTTL:  cfg.Tokens.AccessTokenTTL,
		RefreshTTL: cfg.Tokens.RefreshTokenTTL,
		Secure:     cfg.Env == config.EnvProd,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := sessions.Ping(ctx); err != nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"status": "unavailable"})
			return
		}

		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler(registry))

	r.Route(cfg.HTTPServer.BasePath, func(r chi.Router) {
		r.With(rateLimit.Register(cfg.RateLimit)).Post("/register",
			register.New(log, validate, authService),
		)
		r.With(rateLimit.Activate(cfg.RateLimit)).Post("/activate",
			activate.New(log, validate, authService),
		)
		r.With(rateLimit.Login(cfg.RateLimit)).Post("/login",
			login.New(log, validate, authService, cookieOpts),
		)
		r.With(rateLimit.Refresh(cfg.RateLimit)).Get("/refresh",
			refresh.New(log, authService, cookieOpts),
		)

		r.Group(func(r chi.Router) {
			r.Use(authenticate.New(log, authService))

			r.Get("/logout", logout.New(log, authService, cookieOpts))
			r.Get("/me", me.New())
			r.Post("/update-user-info", updateInfo.New(log, validate, authService))
		})
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case config.EnvDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
