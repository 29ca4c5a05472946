package activation

import (
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	"session_auth/internal/lib/jwt"
	"session_auth/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newIssuer(c *clock) *Issuer {
	return New(jwt.NewSigner(c.Now), "activation-secret", 10*time.Minute, time.Minute)
}

func draft() models.DraftUser {
	return models.DraftUser{Name: "Ann", Email: "a@x.com", PassHash: []byte("$2a$10$hash")}
}

func TestIssueCodeFormat(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	i := newIssuer(c)

	for range 50 {
		_, code, err := i.Issue(draft())
		require.NoError(t, err)
		require.Len(t, code, 4)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000)
		assert.LessOrEqual(t, n, 9999)
	}
}

func TestVerify(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		badCode bool
		badTok  bool
		wantErr error
	}{
		{name: "within window", elapsed: 30 * time.Second},
		{name: "exactly at window", elapsed: time.Minute},
		{name: "code window passed", elapsed: 61 * time.Second, wantErr: ErrInvalidCode},
		{name: "token still valid but code old", elapsed: 9 * time.Minute, wantErr: ErrInvalidCode},
		{name: "token expired", elapsed: 11 * time.Minute, wantErr: ErrInvalidToken},
		{name: "wrong code", elapsed: time.Second, badCode: true, wantErr: ErrInvalidCode},
		{name: "tampered token", elapsed: time.Second, badTok: true, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &clock{now: t0}
			i := newIssuer(c)

			token, code, err := i.Issue(draft())
			require.NoError(t, err)

			c.now = t0.Add(tt.elapsed)

			if tt.badCode {
				code = wrongCode(code)
			}
			if tt.badTok {
				token += "x"
			}

			got, err := i.Verify(token, code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, draft(), got)
		})
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	i := newIssuer(&clock{now: time.Now()})

	_, err := i.Verify("", "1234")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyOtherSecret(t *testing.T) {
	c := &clock{now: time.Now()}

	token, code, err := newIssuer(c).Issue(draft())
	require.NoError(t, err)

	other := New(jwt.NewSigner(c.Now), "another-secret", 10*time.Minute, time.Minute)

	_, err = other.Verify(token, code)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func wrongCode(code string) string {
	if code == "1000" {
		return "1001"
	}
	return "1000"
}

func TestTokenDoesNotExposeDraftOrCode(t *testing.T) {
	i := newIssuer(&clock{now: time.Now()})

	for range 20 {
		token, code, err := i.Issue(draft())
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)

		claims, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)

		body := string(claims)
		assert.NotContains(t, body, "a@x.com")
		assert.NotContains(t, body, "pass_hash")
		assert.NotContains(t, body, base64.StdEncoding.EncodeToString(draft().PassHash))
		assert.NotContains(t, body, `"`+code+`"`)
		assert.NotContains(t, body, "activation_code")
	}
}
