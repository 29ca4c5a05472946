package authenticate

import (
	"context"
	"log/slog"
	"net/http"

	"session_auth/internal/http_server/cookies"
	resp "session_auth/internal/lib/api/response"
	sl "session_auth/internal/lib/logger/sl"
	"session_auth/internal/models"

	"github.com/go-chi/chi/middleware"
)

type ctxKey struct{}

type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) (models.User, error)
}

// New reads the access token cookie, resolves the session user and puts it
// into the request context. Requests that fail the check never reach next.
func New(log *slog.Logger, authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.authenticate"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, err := authorizer.Authorize(r.Context(), cookies.Value(r, cookies.AccessToken))
			if err != nil {
				log.Info("request not authorized", sl.Err(err))

				resp.RenderError(w, r, err)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// * UserFromContext возвращает пользователя, которого положил middleware
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(models.User)
	return user, ok
}
