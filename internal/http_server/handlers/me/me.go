package me

import (
	"net/http"

	"session_auth/internal/auth"
	resp "session_auth/internal/lib/api/response"
	"session_auth/internal/middleware/authenticate"
	"session_auth/internal/models"

	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	User models.User `json:"user"`
}

// * New возвращает снимок пользователя из контекста запроса
func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := authenticate.UserFromContext(r.Context())
		if !ok {
			resp.RenderError(w, r, auth.ErrLoginRequired)

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			User:     user,
		})
	}
}
