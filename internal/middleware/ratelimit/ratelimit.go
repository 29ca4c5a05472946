package rateLimit

import (
	"net/http"
	"time"

	"session_auth/internal/config"

	httprate "github.com/go-chi/httprate"
)

func Register(cfg config.RateLimit) func(http.Handler) http.Handler {
	return limitByIP(cfg.RegisterRequests, cfg.RegisterWindow)
}

func Activate(cfg config.RateLimit) func(http.Handler) http.Handler {
	return limitByIP(cfg.ActivateRequests, cfg.ActivateWindow)
}

func Login(cfg config.RateLimit) func(http.Handler) http.Handler {
	return limitByIP(cfg.LoginRequests, cfg.LoginWindow)
}

func Refresh(cfg config.RateLimit) func(http.Handler) http.Handler {
	return limitByIP(cfg.RefreshRequests, cfg.RefreshWindow)
}

// * limitByIP отвечает 429 после limit запросов с одного IP за окно window
func limitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"message":"Too many requests, please try again later"}`))
		}),
	)
}
