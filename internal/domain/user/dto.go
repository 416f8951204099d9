package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// UserResponse is the public view of an account; the password hash never
// leaves the service layer.
type UserResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	NIK                string  `json:"nik"`
	Role               string  `json:"role"`
	CompanyID          *string `json:"company_id"`
	IsVerified         bool    `json:"is_verified"`
	VerificationStatus string  `json:"verification_status"`
	BirthPlace         *string `json:"birth_place"`
	BirthDate          *string `json:"birth_date"`
	Gender             *string `json:"gender"`
	ProfilePhotoURL    *string `json:"profile_photo_url"`
	CreatedAt          string  `json:"created_at"`
}

// NewUserResponse builds the response; photoURL resolves a stored photo ref.
func NewUserResponse(u User, photoURL func(ref string) string) UserResponse {
	resp := UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		NIK:                u.NIK,
		Role:               string(u.Role),
		CompanyID:          u.CompanyID,
		IsVerified:         u.IsVerified,
		VerificationStatus: string(u.VerificationStatus),
		BirthPlace:         u.BirthPlace,
		CreatedAt:          u.CreatedAt.Format(time.RFC3339),
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format("2006-01-02")
		resp.BirthDate = &d
	}
	if u.Gender != nil {
		g := string(*u.Gender)
		resp.Gender = &g
	}
	if u.ProfilePhotoRef != nil && photoURL != nil {
		url := photoURL(*u.ProfilePhotoRef)
		resp.ProfilePhotoURL = &url
	}
	return resp
}

// UpdateProfileRequest carries the editable profile fields. Name, birth
// place and birth date are required on every update.
type UpdateProfileRequest struct {
	Name       string  `json:"name"`
	BirthPlace string  `json:"birth_place"`
	BirthDate  string  `json:"birth_date"`
	Gender     *string `json:"gender,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.BirthPlace = strings.TrimSpace(r.BirthPlace)

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if validator.IsEmpty(r.BirthPlace) {
		errs = append(errs, validator.ValidationError{Field: "birth_place", Message: "birth_place is required"})
	}
	if validator.IsEmpty(r.BirthDate) {
		errs = append(errs, validator.ValidationError{Field: "birth_date", Message: "birth_date is required"})
	} else if _, ok := validator.IsValidDate(r.BirthDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "birth_date", Message: "birth_date must be in YYYY-MM-DD format"})
	}
	if r.Gender != nil && !validator.IsInSlice(*r.Gender, []string{string(GenderMale), string(GenderFemale)}) {
		errs = append(errs, validator.ValidationError{Field: "gender", Message: "gender must be one of: male, female"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedBirthDate must only be called after Validate succeeded.
func (r *UpdateProfileRequest) ParsedBirthDate() time.Time {
	t, _ := time.Parse("2006-01-02", r.BirthDate)
	return t
}
