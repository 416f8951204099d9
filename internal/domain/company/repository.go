package company

import "context"

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	List(ctx context.Context) ([]Company, error)
	Create(ctx context.Context, newCompany Company) (Company, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (Company, error)
	// Delete removes the company only when no user references it and
	// returns ErrHasDependentEmployees otherwise.
	Delete(ctx context.Context, id string) error
}
