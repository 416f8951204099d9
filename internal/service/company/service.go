package company

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	region geo.BoundingBox
}

func NewCompanyService(companyRepository company.CompanyRepository, region geo.BoundingBox) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepository,
		region:            region,
	}
}

// List implements company.CompanyService.
func (c *CompanyServiceImpl) List(ctx context.Context) ([]company.CompanyResponse, error) {
	companies, err := c.CompanyRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	responses := make([]company.CompanyResponse, 0, len(companies))
	for _, co := range companies {
		responses = append(responses, company.NewCompanyResponse(co))
	}
	return responses, nil
}

// Create implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Create of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}
	if err := company.CheckAnchor(req.Coordinate(), c.region); err != nil {
		return company.CompanyResponse{}, err
	}

	newCompany, err := c.CompanyRepository.Create(ctx, company.Company{
		Name:         req.Name,
		Address:      req.Address,
		Location:     req.Coordinate(),
		ValidRadiusM: req.Radius(),
	})
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to create company: %w", err)
	}

	c.audit(ctx, "company.create", newCompany.ID)
	return company.NewCompanyResponse(newCompany), nil
}

// GetByID implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).GetByID of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.CompanyResponse, error) {
	companyData, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(companyData), nil
}

// Update implements company.CompanyService. HR may only edit its own company.
func (c *CompanyServiceImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	if !actor.CanAccessCompany(id) {
		return company.CompanyResponse{}, user.ErrCompanyScope
	}

	if anchor := req.Coordinate(); anchor != nil {
		if err := company.CheckAnchor(*anchor, c.region); err != nil {
			return company.CompanyResponse{}, err
		}
	}

	updated, err := c.CompanyRepository.Update(ctx, id, req)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	c.audit(ctx, "company.update", id)
	return company.NewCompanyResponse(updated), nil
}

// Delete implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Delete of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Delete(ctx context.Context, id string) error {
	if err := c.CompanyRepository.Delete(ctx, id); err != nil {
		return err
	}
	c.audit(ctx, "company.delete", id)
	return nil
}

func (c *CompanyServiceImpl) audit(ctx context.Context, action, companyID string) {
	actorID := ""
	if actor, err := jwt.ActorFromContext(ctx); err == nil {
		actorID = actor.UserID
	}
	slog.InfoContext(ctx, "administrative action",
		"action", action,
		"actor_id", actorID,
		"company_id", companyID,
	)
}
