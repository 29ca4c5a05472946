package refresh

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"session_auth/internal/http_server/cookies"
	resp "session_auth/internal/lib/api/response"
	sl "session_auth/internal/lib/logger/sl"
	"session_auth/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	AccessToken string `json:"accessToken"`
}

type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
}

func New(
	log *slog.Logger,
	refresher TokenRefresher,
	cookieOpts cookies.Options,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.refresh.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		pair, err := refresher.Refresh(ctx, cookies.Value(r, cookies.RefreshToken))
		if err != nil {
			log.Info("failed to refresh tokens", sl.Err(err))

			resp.RenderError(w, r, err)

			return
		}

		cookies.SetTokens(w, pair, cookieOpts)

		log.Info("Tokens refreshed successfully")

		ResponseOK(w, r, pair.AccessToken)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, accessToken string) {
	render.JSON(w, r, Response{
		Response:    resp.OK(),
		AccessToken: accessToken,
	})
}
