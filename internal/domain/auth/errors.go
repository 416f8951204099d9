package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid NIK or password")
	ErrNotVerified         = errors.New("account is waiting for HR verification")
	ErrTokenInvalid        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
)
