package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee" // Submits attendance, needs HR approval before first login
	RoleHR       Role = "hr"       // Scoped to exactly one company
	RoleAdmin    Role = "admin"    // Unrestricted, never needs verification
)

// ParseRole accepts the canonical role names plus the legacy aliases still
// sent by older mobile clients.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "employee", "karyawan":
		return RoleEmployee, true
	case "hr":
		return RoleHR, true
	case "admin", "super_admin":
		return RoleAdmin, true
	}
	return "", false
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type User struct {
	ID                 string
	Name               string
	NIK                string
	PasswordHash       string
	Role               Role
	CompanyID          *string
	IsVerified         bool
	VerificationStatus VerificationStatus
	BirthPlace         *string
	BirthDate          *time.Time
	Gender             *Gender
	ProfilePhotoRef    *string
	VerifiedAt         *time.Time
	VerifiedBy         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CanLogin reports whether the account passed verification. Admins skip it.
func (u *User) CanLogin() bool {
	return u.Role == RoleAdmin || u.IsVerified
}

// BelongsTo reports whether the user is affiliated with companyID.
func (u *User) BelongsTo(companyID string) bool {
	return u.CompanyID != nil && *u.CompanyID == companyID
}

// Actor is the authenticated caller as carried by the access token.
type Actor struct {
	UserID    string
	NIK       string
	Role      Role
	CompanyID *string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
func (a Actor) IsHR() bool    { return a.Role == RoleHR }

// CanAccessCompany applies the company-scope rule: admins reach every
// company, everyone else only their own.
func (a Actor) CanAccessCompany(companyID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.CompanyID != nil && *a.CompanyID == companyID
}
