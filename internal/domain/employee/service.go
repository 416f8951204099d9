package employee

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// EmployeeService is the HR review of applicants and the employee roster.
type EmployeeService interface {
	// ListApplicants returns pending employees of the caller's company.
	ListApplicants(ctx context.Context, query CompanyQuery) ([]user.UserResponse, error)

	// Verify approves or rejects a pending employee. A decision is final.
	Verify(ctx context.Context, userID string, req VerifyRequest) (VerifyResponse, error)

	// ListEmployees returns verified employees ordered by name.
	ListEmployees(ctx context.Context, query CompanyQuery) ([]user.UserResponse, error)
}
