package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"session_auth/internal/lib/jwt"
	sl "session_auth/internal/lib/logger/sl"
	"session_auth/internal/lib/metrics"
	"session_auth/internal/models"
	"session_auth/internal/storage"
)

type subject struct {
	ID string `json:"id"`
}

// * issuePair подписывает access и refresh токены для пользователя
func (a *Auth) issuePair(userID string) (models.TokenPair, error) {
	const op = "auth.issuePair"

	access, err := jwt.Sign(a.signer, subject{ID: userID}, a.tokens.AccessSecret, a.tokens.AccessTokenTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: access token: %w", op, err)
	}

	refresh, err := jwt.Sign(a.signer, subject{ID: userID}, a.tokens.RefreshSecret, a.tokens.RefreshTokenTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: refresh token: %w", op, err)
	}

	return models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// * startSession выпускает пару токенов и перезаписывает снимок пользователя в кэше
func (a *Auth) startSession(ctx context.Context, user models.User) (models.TokenPair, error) {
	const op = "auth.startSession"

	pair, err := a.issuePair(user.ID)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.storeSnapshot(ctx, user); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

func (a *Auth) storeSnapshot(ctx context.Context, user models.User) error {
	snapshot, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return a.sessions.SetSession(ctx, user.ID, snapshot)
}

// Authorize checks an access token and returns the cached user snapshot of
// its subject. It never writes to the session cache.
func (a *Auth) Authorize(ctx context.Context, accessToken string) (user models.User, err error) {
	const op = "auth.Authorize"

	defer func() { metrics.Observe("authorize", err) }()

	log := a.log.With(
		slog.String("op", op),
	)

	sub, err := jwt.Parse[subject](a.signer, accessToken, a.tokens.AccessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMissing) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrLoginRequired)
		}

		log.Debug("access token rejected", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidAccessToken)
	}

	if sub.ID == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidAccessToken)
	}

	user, err = a.loadSnapshot(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			log.Info("session not found", slog.String("uid", sub.ID))
			return models.User{}, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}

		log.Error("failed to load session", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// * Refresh выпускает новую пару токенов по refresh токену, снимок в кэше не меняется
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (pair models.TokenPair, err error) {
	const op = "auth.Refresh"

	defer func() { metrics.Observe("refresh", err) }()

	log := a.log.With(
		slog.String("op", op),
	)

	sub, err := jwt.Parse[subject](a.signer, refreshToken, a.tokens.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMissing) {
			return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrRefreshTokenMissing)
		}

		log.Warn("refresh token rejected", sl.Err(err))
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	if sub.ID == "" {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	user, err := a.loadSnapshot(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			log.Info("session expired", slog.String("uid", sub.ID))
			return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrSessionExpired)
		}

		log.Error("failed to load session", sl.Err(err))
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	pair, err = a.issuePair(user.ID)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("refresh successful", slog.String("uid", user.ID))

	return pair, nil
}

// * Logout удаляет сессию пользователя, повторный вызов ошибкой не является
func (a *Auth) Logout(ctx context.Context, userID string) (err error) {
	const op = "auth.Logout"

	defer func() { metrics.Observe("logout", err) }()

	log := a.log.With(
		slog.String("op", op),
	)

	if err := a.sessions.DeleteSession(ctx, userID); err != nil {
		log.Error("failed to delete session", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("logout successful", slog.String("uid", userID))

	return nil
}

func (a *Auth) loadSnapshot(ctx context.Context, userID string) (models.User, error) {
	data, err := a.sessions.Session(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return models.User{}, fmt.Errorf("decode session snapshot: %w", err)
	}

	// the subject id is authoritative even if an older snapshot lacks it
	user.ID = userID

	return user, nil
}
