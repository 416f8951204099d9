package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByNIK(ctx context.Context, nik string) (User, error)
	ExistsByNIK(ctx context.Context, nik string) (bool, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest, photoRef *string) (User, error)
	ListByCompany(ctx context.Context, filter ListFilter) ([]User, error)
	CountByCompany(ctx context.Context, companyID string) (int64, error)
	UpdateVerification(ctx context.Context, id string, status VerificationStatus, verifiedBy string) (User, error)
}

// ListFilter narrows ListByCompany. Results are ordered by name.
type ListFilter struct {
	CompanyID string
	Role      *Role
	Status    *VerificationStatus
}
