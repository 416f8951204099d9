package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// RegisterRequest covers both signup flavours. HR accounts bring their
// company along; employees apply to an existing company.
type RegisterRequest struct {
	Name     string `json:"name"`
	NIK      string `json:"nik"`
	Password string `json:"password"`
	Role     string `json:"role"`

	// Employee
	CompanyID  *string `json:"company_id,omitempty"`
	BirthPlace *string `json:"birth_place,omitempty"`
	BirthDate  *string `json:"birth_date,omitempty"`
	Gender     *string `json:"gender,omitempty"`

	// HR
	CompanyName  *string  `json:"company_name,omitempty"`
	Address      *string  `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ValidRadiusM *int     `json:"valid_radius_m,omitempty"`

	role user.Role
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.NIK = strings.TrimSpace(r.NIK)

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.NIK) {
		errs.Add("nik", "nik is required")
	} else if !validator.IsValidNIK(r.NIK) {
		errs.Add("nik", "nik must be exactly 16 digits")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	} else if len(r.Password) > 72 {
		errs.Add("password", "password must not exceed 72 characters")
	}

	role, ok := user.ParseRole(strings.ToLower(strings.TrimSpace(r.Role)))
	switch {
	case validator.IsEmpty(r.Role):
		errs.Add("role", "role is required")
	case !ok || role == user.RoleAdmin:
		errs.Add("role", "role must be one of: employee, hr")
	case role == user.RoleHR:
		r.role = role
		r.validateCompany(&errs)
	default:
		r.role = role
		r.validateEmployee(&errs)
	}

	return errs.Err()
}

func (r *RegisterRequest) validateCompany(errs *validator.ValidationErrors) {
	req := r.CompanyRequest()
	var verrs validator.ValidationErrors
	if !errors.As(req.Validate(), &verrs) {
		return
	}
	for _, e := range verrs {
		if e.Field == "name" {
			errs.Add("company_name", strings.Replace(e.Message, "name", "company_name", 1))
			continue
		}
		errs.Add(e.Field, e.Message)
	}
}

func (r *RegisterRequest) validateEmployee(errs *validator.ValidationErrors) {
	if r.CompanyID == nil || validator.IsEmpty(*r.CompanyID) {
		errs.Add("company_id", "company_id is required")
	} else if !validator.IsValidUUID(*r.CompanyID) {
		errs.Add("company_id", "company_id must be a valid UUID")
	}
	if r.BirthPlace == nil || validator.IsEmpty(*r.BirthPlace) {
		errs.Add("birth_place", "birth_place is required")
	}
	if r.BirthDate == nil || validator.IsEmpty(*r.BirthDate) {
		errs.Add("birth_date", "birth_date is required")
	} else if _, ok := validator.IsValidDate(*r.BirthDate); !ok {
		errs.Add("birth_date", "birth_date must be in YYYY-MM-DD format")
	}
	if r.Gender == nil || !validator.IsInSlice(strings.ToLower(*r.Gender), []string{string(user.GenderMale), string(user.GenderFemale)}) {
		errs.Add("gender", "gender must be one of: male, female")
	}
}

// ParsedRole returns the canonical role. Only valid after Validate.
func (r *RegisterRequest) ParsedRole() user.Role {
	return r.role
}

// CompanyRequest projects the HR company fields.
func (r *RegisterRequest) CompanyRequest() company.CreateCompanyRequest {
	req := company.CreateCompanyRequest{
		Address:      r.Address,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		ValidRadiusM: r.ValidRadiusM,
	}
	if r.CompanyName != nil {
		req.Name = *r.CompanyName
	}
	return req
}

// Applicant builds the pending employee account. Only valid after Validate.
func (r *RegisterRequest) Applicant(passwordHash string) user.User {
	birthDate, _ := time.Parse("2006-01-02", *r.BirthDate)
	gender := user.Gender(strings.ToLower(*r.Gender))
	place := strings.TrimSpace(*r.BirthPlace)

	return user.User{
		Name:               r.Name,
		NIK:                r.NIK,
		PasswordHash:       passwordHash,
		Role:               user.RoleEmployee,
		CompanyID:          r.CompanyID,
		IsVerified:         false,
		VerificationStatus: user.VerificationPending,
		BirthPlace:         &place,
		BirthDate:          &birthDate,
		Gender:             &gender,
	}
}

type LoginRequest struct {
	NIK      string `json:"nik"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.NIK = strings.TrimSpace(r.NIK)
	if validator.IsEmpty(r.NIK) {
		errs.Add("nik", "nik is required")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}

	return errs.Err()
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string             `json:"access_token"`
	AccessTokenExpiresIn  int64              `json:"access_token_expires_in"`
	RefreshToken          string             `json:"refresh_token"`
	RefreshTokenExpiresIn int64              `json:"refresh_token_expires_in"`
	User                  *user.UserResponse `json:"user,omitempty"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type RegisterResponse struct {
	User    user.UserResponse        `json:"user"`
	Company *company.CompanyResponse `json:"company,omitempty"`
	Tokens  *TokenResponse           `json:"tokens,omitempty"`
}
