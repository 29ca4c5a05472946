package activate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "session_auth/internal/lib/api/response"
	sl "session_auth/internal/lib/logger/sl"
	"session_auth/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Request carries the token returned by register and the code from the
// activation mail. An empty token is rejected by the service as invalid.
type Request struct {
	Token string `json:"token"`
	Code  string `json:"activationCode" validate:"required,numeric,len=4"`
}

type Response struct {
	resp.Response
	User models.User `json:"user"`
}

type UserActivator interface {
	Activate(ctx context.Context, token, code string) (models.User, error)
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	activator UserActivator,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.activate.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

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

		user, err := activator.Activate(ctx, req.Token, req.Code)
		if err != nil {
			log.Warn("failed to activate user", sl.Err(err))

			resp.RenderError(w, r, err)

			return
		}

		log.Info("user activated", slog.String("uid", user.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.OKWithMessage("Account activated successfully"),
			User:     user,
		})
	}
}
