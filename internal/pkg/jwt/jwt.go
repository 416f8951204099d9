package jwt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type Service interface {
	GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	// ParseRefreshToken verifies signature, expiry and type of a refresh
	// token and returns its owner.
	ParseRefreshToken(token string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	tokenAuth  *jwtauth.JWTAuth
	now        func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tokenAuth:  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:        time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTTL).Unix()

	claims := map[string]interface{}{
		"user_id":    actor.UserID,
		"nik":        actor.NIK,
		"company_id": valueOrNil(actor.CompanyID),
		"role":       string(actor.Role),
		"type":       TypeAccess,
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    TypeRefresh,
		"jti":     uuid.NewString(),
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", MapError(err)
	}

	if tokenType, _ := token.Get("type"); tokenType != TypeRefresh {
		return "", auth.ErrTokenInvalid
	}
	userID, _ := token.Get("user_id")
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", auth.ErrTokenInvalid
	}
	return id, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

// MapError folds jwtauth verification errors into the two token failures
// callers care about.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwtauth.ErrExpired):
		return auth.ErrTokenExpired
	default:
		return auth.ErrTokenInvalid
	}
}

func valueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

// ActorFromContext reads the verified access token placed in ctx by
// jwtauth.Verifier.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Actor{}, MapError(err)
	}
	return ActorFromClaims(claims)
}

func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	if t, _ := claims["type"].(string); t != TypeAccess {
		return user.Actor{}, auth.ErrTokenInvalid
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return user.Actor{}, auth.ErrTokenInvalid
	}

	actor := user.Actor{UserID: userID, Role: user.Role(role)}
	actor.NIK, _ = claims["nik"].(string)
	if companyID, ok := claims["company_id"].(string); ok && companyID != "" {
		actor.CompanyID = &companyID
	}
	return actor, nil
}

// ContextWithActor attaches an access token for actor to ctx, as the
// verifier middleware would.
func ContextWithActor(ctx context.Context, actor user.Actor) context.Context {
	token := jwt.New()
	_ = token.Set("user_id", actor.UserID)
	_ = token.Set("nik", actor.NIK)
	_ = token.Set("role", string(actor.Role))
	_ = token.Set("type", TypeAccess)
	if actor.CompanyID != nil {
		_ = token.Set("company_id", *actor.CompanyID)
	}
	return jwtauth.NewContext(ctx, token, nil)
}
