package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
	translator  *i18n.Translator
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, translator *i18n.Translator) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
		translator:  translator,
	}
}

func sessionFrom(r *http.Request) auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{IPAddress: r.RemoteAddr, UserAgent: r.UserAgent()}
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := a.authService.Register(r.Context(), registerReq, sessionFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := a.translator.T(r.Context(), "auth.registered.employee")
	if result.Company != nil {
		message = a.translator.T(r.Context(), "auth.registered.hr", map[string]any{"Company": result.Company.Name})
	}
	if result.Tokens != nil {
		http.SetCookie(w, a.jwtService.RefreshTokenCookie(result.Tokens.RefreshToken, result.Tokens.RefreshTokenExpiresIn))
	}

	response.Created(w, message, result)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq, sessionFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	response.SuccessWithMessage(w, a.translator.T(r.Context(), "auth.logged_in"), tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	refreshTokenReq, err := refreshTokenFrom(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := a.authService.Logout(r.Context(), refreshTokenReq); err != nil {
		response.HandleError(w, err)
		return
	}

	// Clear the refresh token cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	})
	response.SuccessWithMessage(w, a.translator.T(r.Context(), "auth.logged_out"), nil)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshTokenReq, err := refreshTokenFrom(r)
	if err != nil {
		slog.Error("Refresh Token decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	accessTokenResponse, err := a.authService.RefreshToken(r.Context(), refreshTokenReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, accessTokenResponse)
}

// refreshTokenFrom prefers the refresh_token cookie and falls back to the
// JSON body.
func refreshTokenFrom(r *http.Request) (auth.RefreshTokenRequest, error) {
	var req auth.RefreshTokenRequest

	if cookie, err := r.Cookie("refresh_token"); err == nil && cookie.Value != "" {
		req.RefreshToken = cookie.Value
		return req, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return auth.RefreshTokenRequest{}, err
	}
	return req, nil
}
