package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx postgresql.Transactor
	user.UserRepository
	company.CompanyRepository
	auth.RefreshTokenRepository
	jwt.Service
	fileService file.FileService
	region      geo.BoundingBox
}

func NewAuthService(
	tx postgresql.Transactor,
	userRepository user.UserRepository,
	companyRepository company.CompanyRepository,
	refreshTokenRepository auth.RefreshTokenRepository,
	jwtService jwt.Service,
	fileService file.FileService,
	region geo.BoundingBox,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:                     tx,
		UserRepository:         userRepository,
		CompanyRepository:      companyRepository,
		RefreshTokenRepository: refreshTokenRepository,
		Service:                jwtService,
		fileService:            fileService,
		region:                 region,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionTrackingRequest) (auth.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.RegisterResponse{}, err
	}

	exists, err := a.UserRepository.ExistsByNIK(ctx, req.NIK)
	if err != nil {
		return auth.RegisterResponse{}, fmt.Errorf("failed to check NIK: %w", err)
	}
	if exists {
		return auth.RegisterResponse{}, user.ErrNIKExists
	}

	hashedPassword, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.RegisterResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if req.ParsedRole() == user.RoleHR {
		return a.registerHR(ctx, req, hashedPassword, session)
	}

	// Employees apply to an existing company and wait for HR.
	if _, err := a.CompanyRepository.GetByID(ctx, *req.CompanyID); err != nil {
		return auth.RegisterResponse{}, err
	}

	applicant, err := a.UserRepository.Create(ctx, req.Applicant(hashedPassword))
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	slog.InfoContext(ctx, "employee registered", "user_id", applicant.ID, "company_id", *applicant.CompanyID)
	return auth.RegisterResponse{User: user.NewUserResponse(applicant, a.fileService.GetFileURL)}, nil
}

// registerHR creates the company and its first HR account as one unit and
// signs the new account in.
func (a *AuthServiceImpl) registerHR(ctx context.Context, req auth.RegisterRequest, hashedPassword string, session auth.SessionTrackingRequest) (auth.RegisterResponse, error) {
	companyReq := req.CompanyRequest()
	if err := company.CheckAnchor(companyReq.Coordinate(), a.region); err != nil {
		return auth.RegisterResponse{}, err
	}

	var (
		newCompany company.Company
		newUser    user.User
		tokens     auth.TokenResponse
	)
	err := a.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		newCompany, err = a.CompanyRepository.Create(txCtx, company.Company{
			Name:         companyReq.Name,
			Address:      companyReq.Address,
			Location:     companyReq.Coordinate(),
			ValidRadiusM: companyReq.Radius(),
		})
		if err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}

		newUser, err = a.UserRepository.Create(txCtx, user.User{
			Name:               req.Name,
			NIK:                req.NIK,
			PasswordHash:       hashedPassword,
			Role:               user.RoleHR,
			CompanyID:          &newCompany.ID,
			IsVerified:         true,
			VerificationStatus: user.VerificationApproved,
		})
		if err != nil {
			return err
		}

		tokens, err = a.issueTokens(txCtx, newUser, session)
		return err
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	slog.InfoContext(ctx, "hr registered", "user_id", newUser.ID, "company_id", newCompany.ID)

	userResp := user.NewUserResponse(newUser, a.fileService.GetFileURL)
	companyResp := company.NewCompanyResponse(newCompany)
	tokens.User = &userResp
	return auth.RegisterResponse{User: userResp, Company: &companyResp, Tokens: &tokens}, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByNIK(ctx, req.NIK)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by NIK: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.CanLogin() {
		return auth.TokenResponse{}, auth.ErrNotVerified
	}

	tokens, err := a.issueTokens(ctx, userData, session)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	userResp := user.NewUserResponse(userData, a.fileService.GetFileURL)
	tokens.User = &userResp
	return tokens, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	// 1. Signature, expiry and token type
	ownerID, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	// 2. Revocation
	userID, err := a.RefreshTokenRepository.FindActiveUser(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if userID != ownerID {
		return auth.AccessTokenResponse{}, auth.ErrTokenInvalid
	}

	// 3. Fresh claims, so role and company changes apply on refresh
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrTokenInvalid
		}
		return auth.AccessTokenResponse{}, err
	}
	if !userData.CanLogin() {
		return auth.AccessTokenResponse{}, auth.ErrNotVerified
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(actorOf(userData))
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService. Revoking an unknown or already revoked
// token succeeds.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.RefreshTokenRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := a.RefreshTokenRepository.Revoke(ctx, req.RefreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var (
		tokens auth.TokenResponse
		err    error
	)

	tokens.AccessToken, tokens.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(actorOf(u))
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokens.RefreshToken, tokens.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = a.RefreshTokenRepository.Create(ctx, u.ID, tokens.RefreshToken, time.Unix(tokens.RefreshTokenExpiresIn, 0), session)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}
	return tokens, nil
}

func actorOf(u user.User) user.Actor {
	return user.Actor{UserID: u.ID, NIK: u.NIK, Role: u.Role, CompanyID: u.CompanyID}
}
