// Package jwt signs and verifies the time-bounded HS256 tokens used for
// activation, access and refresh credentials.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMissing = errors.New("token is missing")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
)

// Claims wraps an arbitrary payload with the registered claims every token
// carries. ID is random so two tokens minted in the same second differ.
type Claims[T any] struct {
	Data T `json:"data"`
	jwtlib.RegisteredClaims
}

type Signer struct {
	now func() time.Time
}

func NewSigner(now func() time.Time) *Signer {
	if now == nil {
		now = time.Now
	}

	return &Signer{now: now}
}

func (s *Signer) Now() time.Time {
	return s.now()
}

func Sign[T any](s *Signer, data T, secret string, ttl time.Duration) (string, error) {
	const op = "jwt.Sign"

	now := s.now()

	claims := Claims[T]{
		Data: data,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Parse verifies signature and expiry of tokenStr and returns its payload.
// The returned error always wraps one of ErrTokenMissing, ErrTokenInvalid or
// ErrTokenExpired.
func Parse[T any](s *Signer, tokenStr, secret string) (T, error) {
	const op = "jwt.Parse"

	var zero T

	if tokenStr == "" {
		return zero, fmt.Errorf("%s: %w", op, ErrTokenMissing)
	}

	claims := &Claims[T]{}

	token, err := jwtlib.ParseWithClaims(
		tokenStr,
		claims,
		func(t *jwtlib.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return zero, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return zero, fmt.Errorf("%s: %w: %v", op, ErrTokenInvalid, err)
	}

	if !token.Valid {
		return zero, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}

	return claims.Data, nil
}
