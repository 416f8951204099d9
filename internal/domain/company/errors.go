package company

import "errors"

var (
	ErrCompanyNotFound       = errors.New("company not found")
	ErrHasDependentEmployees = errors.New("company still has employees and cannot be deleted")
	ErrInvalidCompanyName    = errors.New("company name cannot be empty")
)
