package auth

import "session_auth/internal/lib/apperr"

var (
	ErrInvalidCredentials     = apperr.Auth("Invalid email or password")
	ErrDuplicateEmail         = apperr.Validation("Email already exists")
	ErrInvalidActivationToken = apperr.Validation("Invalid token")
	ErrInvalidActivationCode  = apperr.Validation("Invalid or expired activation code")
	ErrMailDelivery           = apperr.Validation("Failed to send activation email")
	ErrLoginRequired          = apperr.Auth("Please login to access this resource")
	ErrInvalidAccessToken     = apperr.Auth("Access token is not valid")
	ErrSessionNotFound        = apperr.NotFound("Session not found")
	ErrRefreshTokenMissing    = apperr.Auth("Refresh token not found")
	ErrInvalidRefreshToken    = apperr.Auth("Refresh token is not valid")
	ErrSessionExpired         = apperr.NotFound("Session expired, please login again")
	ErrUserNotFound           = apperr.NotFound("User not found")
)
