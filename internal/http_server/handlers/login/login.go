package login

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
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Response struct {
	resp.Response
	AccessToken string      `json:"accessToken"`
	User        models.User `json:"user"`
}

type UserLoginer interface {
	Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error)
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	loginer UserLoginer,
	cookieOpts cookies.Options,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

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

		user, pair, err := loginer.Login(ctx, req.Email, req.Password)
		if err != nil {
			log.Info("failed to login user", sl.Err(err))

			resp.RenderError(w, r, err)

			return
		}

		log.Info("User logged in successfully", slog.String("uid", user.ID))

		cookies.SetTokens(w, pair, cookieOpts)

		ResponseOK(w, r, pair.AccessToken, user)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, accessToken string, user models.User) {
	render.JSON(w, r, Response{
		Response:    resp.OK(),
		AccessToken: accessToken,
		User:        user,
	})
}
