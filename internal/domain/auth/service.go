package auth

import (
	"context"
)

type AuthService interface {
	// Register creates an account. HR registration also creates the
	// company and returns tokens; employees wait for verification.
	Register(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req RefreshTokenRequest) error
}
