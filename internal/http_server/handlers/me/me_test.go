package me

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"session_auth/internal/middleware/authenticate"
	"session_auth/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMe(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(authenticate.WithUser(req.Context(), models.User{ID: "u1", Email: "a@x.com"}))
	rec := httptest.NewRecorder()

	New().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "a@x.com", body.User.Email)
}

func TestMeWithoutUser(t *testing.T) {
	rec := httptest.NewRecorder()

	New().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
