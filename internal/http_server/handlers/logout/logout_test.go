package logout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"session_auth/internal/http_server/cookies"
	"session_auth/internal/lib/logger/slogdiscard"
	"session_auth/internal/middleware/authenticate"
	"session_auth/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func(ctx context.Context, userID string) error

func (f closerFunc) Logout(ctx context.Context, userID string) error {
	return f(ctx, userID)
}

func TestLogout(t *testing.T) {
	var closed string
	h := New(slogdiscard.NewDiscardLogger(), closerFunc(func(_ context.Context, id string) error {
		closed = id
		return nil
	}), cookies.Options{})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req = req.WithContext(authenticate.WithUser(req.Context(), models.User{ID: "u1"}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", closed)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Logged out successfully", body.Message)

	cs := rec.Result().Cookies()
	require.Len(t, cs, 2)
	for _, c := range cs {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestLogoutWithoutUser(t *testing.T) {
	h := New(slogdiscard.NewDiscardLogger(), closerFunc(func(context.Context, string) error {
		t.Fatal("logout must not be called")
		return nil
	}), cookies.Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
