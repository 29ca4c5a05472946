package register

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	resp "session_auth/internal/lib/api/response"
	sl "session_auth/internal/lib/logger/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type Response struct {
	resp.Response
	ActivationToken string `json:"activationToken"`
}

type UserRegisterer interface {
	Register(ctx context.Context, name, email, password string) (string, error)
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	registerer UserRegisterer,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.register.New"

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

		log.Info("Request body decoded")

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		token, err := registerer.Register(ctx, req.Name, req.Email, req.Password)
		if err != nil {
			log.Error("failed to register user", sl.Err(err))

			resp.RenderError(w, r, err)

			return
		}

		log.Info("Activation email sent")

		ResponseCreated(w, r, token)
	}
}

func ResponseCreated(w http.ResponseWriter, r *http.Request, token string) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Response:        resp.OKWithMessage("Account activation email sent"),
		ActivationToken: token,
	})
}
