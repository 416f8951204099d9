package employee

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// CompanyQuery selects the company to list. HR users are pinned to their
// own company; admins must name one.
type CompanyQuery struct {
	CompanyID *string `json:"company_id,omitempty"`
}

func (q *CompanyQuery) Validate() error {
	var errs validator.ValidationErrors

	if q.CompanyID != nil {
		trimmed := strings.TrimSpace(*q.CompanyID)
		if trimmed == "" {
			q.CompanyID = nil
		} else if !validator.IsValidUUID(trimmed) {
			errs.Add("company_id", "company_id must be a valid UUID")
		} else {
			q.CompanyID = &trimmed
		}
	}

	return errs.Err()
}

type VerifyRequest struct {
	Status string `json:"status"`
}

func (r *VerifyRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if validator.IsEmpty(r.Status) {
		errs.Add("status", "status is required")
	} else if r.Status != string(user.VerificationApproved) && r.Status != string(user.VerificationRejected) {
		errs.Add("status", "status must be one of: approved, rejected")
	}

	return errs.Err()
}

func (r *VerifyRequest) Decision() user.VerificationStatus {
	return user.VerificationStatus(r.Status)
}

type VerifyResponse struct {
	Message string            `json:"message"`
	User    user.UserResponse `json:"user"`
}
