package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrNIKExists              = errors.New("NIK already registered")
	ErrInsufficientPermission = errors.New("insufficient permissions")
	ErrCompanyScope           = errors.New("resource belongs to another company")
	ErrCompanyIDRequired      = errors.New("company ID is required")
	ErrNotAnEmployee          = errors.New("user is not an employee")
	ErrAlreadyVerified        = errors.New("applicant has already been reviewed")
	ErrInvalidFileType        = errors.New("only jpg and png images are allowed")
	ErrFileTooLarge           = errors.New("file exceeds the maximum upload size")
)
