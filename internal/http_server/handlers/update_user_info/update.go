package updateInfo

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"session_auth/internal/auth"
	resp "session_auth/internal/lib/api/response"
	sl "session_auth/internal/lib/logger/sl"
	"session_auth/internal/middleware/authenticate"
	"session_auth/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type Response struct {
	resp.Response
	User models.User `json:"user"`
}

type InfoUpdater interface {
	UpdateInfo(ctx context.Context, userID, name, email string) (models.User, error)
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	updater InfoUpdater,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.updateInfo.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := authenticate.UserFromContext(r.Context())
		if !ok {
			resp.RenderError(w, r, auth.ErrLoginRequired)

			return
		}

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		updated, err := updater.UpdateInfo(ctx, user.ID, req.Name, req.Email)
		if err != nil {
			log.Error("failed to update user", sl.Err(err))

			resp.RenderError(w, r, err)

			return
		}

		log.Info("user updated", slog.String("uid", updated.ID))

		render.JSON(w, r, Response{
			Response: resp.OKWithMessage("User updated successfully"),
			User:     updated,
		})
	}
}
