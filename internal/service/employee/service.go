package employee

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
)

type EmployeeServiceImpl struct {
	user.UserRepository
	companyRepo company.CompanyRepository
	fileService file.FileService
	translator  *i18n.Translator
}

func NewEmployeeService(userRepo user.UserRepository, companyRepo company.CompanyRepository, fileService file.FileService, translator *i18n.Translator) employee.EmployeeService {
	return &EmployeeServiceImpl{
		UserRepository: userRepo,
		companyRepo:    companyRepo,
		fileService:    fileService,
		translator:     translator,
	}
}

// ListApplicants implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListApplicants(ctx context.Context, query employee.CompanyQuery) ([]user.UserResponse, error) {
	return s.list(ctx, query, user.VerificationPending)
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, query employee.CompanyQuery) ([]user.UserResponse, error) {
	return s.list(ctx, query, user.VerificationApproved)
}

// Verify implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Verify(ctx context.Context, userID string, req employee.VerifyRequest) (employee.VerifyResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.VerifyResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return employee.VerifyResponse{}, err
	}

	target, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return employee.VerifyResponse{}, err
	}
	if target.Role != user.RoleEmployee {
		return employee.VerifyResponse{}, user.ErrNotAnEmployee
	}
	if target.CompanyID == nil || !actor.CanAccessCompany(*target.CompanyID) {
		return employee.VerifyResponse{}, user.ErrCompanyScope
	}
	if target.VerificationStatus != user.VerificationPending {
		return employee.VerifyResponse{}, user.ErrAlreadyVerified
	}

	decision := req.Decision()
	updated, err := s.UserRepository.UpdateVerification(ctx, userID, decision, actor.UserID)
	if err != nil {
		return employee.VerifyResponse{}, err
	}

	slog.InfoContext(ctx, "administrative action",
		"action", "employee.verify",
		"actor_id", actor.UserID,
		"user_id", userID,
		"company_id", *target.CompanyID,
		"status", string(decision),
	)

	return employee.VerifyResponse{
		Message: s.translator.T(ctx, "employee."+string(decision), map[string]any{"Name": updated.Name}),
		User:    user.NewUserResponse(updated, s.fileService.GetFileURL),
	}, nil
}

func (s *EmployeeServiceImpl) list(ctx context.Context, query employee.CompanyQuery, status user.VerificationStatus) ([]user.UserResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	companyID, err := s.resolveCompany(ctx, query)
	if err != nil {
		return nil, err
	}

	role := user.RoleEmployee
	users, err := s.UserRepository.ListByCompany(ctx, user.ListFilter{
		CompanyID: companyID,
		Role:      &role,
		Status:    &status,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.NewUserResponse(u, s.fileService.GetFileURL))
	}
	return responses, nil
}

// resolveCompany pins HR to its own company. Admins must name one.
func (s *EmployeeServiceImpl) resolveCompany(ctx context.Context, query employee.CompanyQuery) (string, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return "", err
	}

	if !actor.IsAdmin() {
		if actor.CompanyID == nil {
			return "", user.ErrCompanyIDRequired
		}
		if query.CompanyID != nil && *query.CompanyID != *actor.CompanyID {
			return "", user.ErrCompanyScope
		}
		return *actor.CompanyID, nil
	}

	if query.CompanyID == nil {
		return "", user.ErrCompanyIDRequired
	}
	if _, err := s.companyRepo.GetByID(ctx, *query.CompanyID); err != nil {
		return "", err
	}
	return *query.CompanyID, nil
}
