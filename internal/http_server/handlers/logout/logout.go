package logout

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"session_auth/internal/auth"
	"session_auth/internal/http_server/cookies"
	resp "session_auth/internal/lib/api/response"
	sl "session_auth/internal/lib/logger/sl"
	"session_auth/internal/middleware/authenticate"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
}

type SessionCloser interface {
	Logout(ctx context.Context, userID string) error
}

// New must be mounted behind the authenticate middleware.
func New(
	log *slog.Logger,
	closer SessionCloser,
	cookieOpts cookies.Options,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.logout.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := authenticate.UserFromContext(r.Context())
		if !ok {
			resp.RenderError(w, r, auth.ErrLoginRequired)

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := closer.Logout(ctx, user.ID); err != nil {
			log.Error("failed to logout user", sl.Err(err))

			resp.RenderError(w, r, err)

			return
		}

		cookies.Clear(w, cookieOpts)

		log.Info("user logged out successfully", slog.String("uid", user.ID))

		render.JSON(w, r, Response{
			Response: resp.OKWithMessage("Logged out successfully"),
		})
	}
}
