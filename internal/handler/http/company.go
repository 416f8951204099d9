package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type CompanyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
	translator     *i18n.Translator
}

func NewCompanyHandler(companyService company.CompanyService, translator *i18n.Translator) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService: companyService,
		translator:     translator,
	}
}

// companyID reads the {id} parameter; malformed IDs cannot match a company.
func companyID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		return "", company.ErrCompanyNotFound
	}
	return id, nil
}

// List implements CompanyHandler.
func (c *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companies, err := c.companyService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, companies)
}

// Create implements CompanyHandler.
func (c *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := c.companyService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, c.translator.T(r.Context(), "company.created"), created)
}

// GetByID implements CompanyHandler.
func (c *CompanyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	companyData, err := c.companyService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, companyData)
}

// Update implements CompanyHandler.
func (c *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req company.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := c.companyService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, c.translator.T(r.Context(), "company.updated"), updated)
}

// Delete implements CompanyHandler.
func (c *CompanyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := companyID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := c.companyService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, c.translator.T(r.Context(), "company.deleted"), nil)
}
