package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "session_auth/internal/lib/logger/sl"
	"session_auth/internal/models"
	"session_auth/internal/storage"
)

// UpdateInfo changes name and/or email of a user and then overwrites the
// cached snapshot. Empty arguments leave the field unchanged. Concurrent
// writers to the same session are last-write-wins.
func (a *Auth) UpdateInfo(
	ctx context.Context,
	userID, name, email string,
) (models.User, error) {
	const op = "auth.UpdateInfo"

	log := a.log.With(
		slog.String("op", op),
		slog.String("uid", userID),
	)

	user, err := a.usrProvider.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		log.Error("failed to get user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if name != "" {
		user.Name = name
	}

	if email = normalizeEmail(email); email != "" && email != user.Email {
		if err := a.ensureEmailFree(ctx, email); err != nil {
			return models.User{}, fmt.Errorf("%s: %w", op, err)
		}

		user.Email = email
	}

	user, err = a.usrSaver.UpdateUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserExists):
			return models.User{}, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		case errors.Is(err, storage.ErrUserNotFound):
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		log.Error("failed to update user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.storeSnapshot(ctx, user); err != nil {
		log.Error("failed to update session", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user updated successfully")

	return user, nil
}
