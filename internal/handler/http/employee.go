package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	ListApplicants(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

func companyQuery(r *http.Request) employee.CompanyQuery {
	var q employee.CompanyQuery
	if id := r.URL.Query().Get("company_id"); id != "" {
		q.CompanyID = &id
	}
	return q
}

// userIDParam reads {userID}; malformed IDs cannot match a user.
func userIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "userID")
	if !validator.IsValidUUID(id) {
		return "", user.ErrUserNotFound
	}
	return id, nil
}

// ListApplicants implements EmployeeHandler.
func (h *employeeHandlerImpl) ListApplicants(w http.ResponseWriter, r *http.Request) {
	applicants, err := h.employeeService.ListApplicants(r.Context(), companyQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, applicants)
}

// Verify implements EmployeeHandler.
func (h *employeeHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req employee.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Verify decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.Verify(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, result.Message, result.User)
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeService.ListEmployees(r.Context(), companyQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employees)
}
