package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"session_auth/internal/config"
	"session_auth/internal/lib/activation"
	"session_auth/internal/lib/jwt"
	sl "session_auth/internal/lib/logger/sl"
	"session_auth/internal/lib/metrics"
	"session_auth/internal/models"
	"session_auth/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

const activationTemplate = "activation-mail"

// dummyHash is compared against when the email is unknown so that a missing
// account costs the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	sessions    SessionCache
	publisher   Publisher
	signer      *jwt.Signer
	activation  *activation.Issuer
	tokens      config.Tokens
}

type UserSaver interface {
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
}

// SessionCache stores one JSON user snapshot per user id. Session returns
// storage.ErrSessionNotFound when there is none.
type SessionCache interface {
	Session(ctx context.Context, userID string) ([]byte, error)
	SetSession(ctx context.Context, userID string, snapshot []byte) error
	DeleteSession(ctx context.Context, userID string) error
}

type Publisher interface {
	SendMessage(ctx context.Context, msg models.Message) error
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	sessions SessionCache,
	publisher Publisher,
	signer *jwt.Signer,
	tokens config.Tokens,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		sessions:    sessions,
		publisher:   publisher,
		signer:      signer,
		activation:  activation.New(signer, tokens.ActivationSecret, tokens.ActivationTokenTTL, tokens.ActivationCodeTTL),
		tokens:      tokens,
	}
}

// * Register проверяет email, отправляет код активации и возвращает токен активации
func (a *Auth) Register(
	ctx context.Context,
	name, email, password string,
) (activationToken string, err error) {
	const op = "auth.Register"

	defer func() { metrics.Observe("register", err) }()

	email = normalizeEmail(email)

	log := a.log.With(
		slog.String("op", op),
	)

	log.Info("registering new user")

	if err := a.ensureEmailFree(ctx, email); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, code, err := a.activation.Issue(models.DraftUser{
		Name:     name,
		Email:    email,
		PassHash: passHash,
	})
	if err != nil {
		log.Error("failed to issue activation token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	msg := models.Message{
		Email:    email,
		Subject:  "Account Activation",
		Template: activationTemplate,
		Data: map[string]string{
			"name":           name,
			"activationCode": code,
		},
	}

	if err := a.publisher.SendMessage(ctx, msg); err != nil {
		log.Error("failed to send activation email", sl.Err(err))
		return "", fmt.Errorf("%s: %w: %v", op, ErrMailDelivery, err)
	}

	log.Info("activation email queued")

	return token, nil
}

// * Activate проверяет токен и код активации и создает пользователя
func (a *Auth) Activate(
	ctx context.Context,
	activationToken, code string,
) (user models.User, err error) {
	const op = "auth.Activate"

	defer func() { metrics.Observe("activate", err) }()

	log := a.log.With(
		slog.String("op", op),
	)

	draft, err := a.activation.Verify(activationToken, code)
	if err != nil {
		log.Warn("activation rejected", sl.Err(err))

		if errors.Is(err, activation.ErrInvalidCode) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidActivationCode)
		}

		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidActivationToken)
	}

	// the account may have been created by another activation since the token was issued
	if err := a.ensureEmailFree(ctx, draft.Email); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err = a.usrSaver.SaveUser(ctx, models.User{
		Name:     draft.Name,
		Email:    draft.Email,
		PassHash: draft.PassHash,
		Role:     models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")
			return models.User{}, fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		}

		log.Error("failed to save user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user activated", slog.String("uid", user.ID))

	return user, nil
}

// * Login проверяет учетные данные, выпускает пару токенов и сохраняет сессию
func (a *Auth) Login(
	ctx context.Context,
	email, password string,
) (user models.User, pair models.TokenPair, err error) {
	const op = "auth.Login"

	defer func() { metrics.Observe("login", err) }()

	log := a.log.With(
		slog.String("op", op),
	)

	user, err = a.usrProvider.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))

			log.Info("invalid credentials")
			return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))
		return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials")
		return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err = a.startSession(ctx, user)
	if err != nil {
		log.Error("failed to start session", sl.Err(err))
		return models.User{}, models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully", slog.String("uid", user.ID))

	return user, pair, nil
}

func (a *Auth) ensureEmailFree(ctx context.Context, email string) error {
	_, err := a.usrProvider.UserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrDuplicateEmail
	case errors.Is(err, storage.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
