package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// maxMultipartMemory is the in-memory budget for multipart bodies; larger
// parts spill to disk.
const maxMultipartMemory = 10 << 20

type AttendanceHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	TodayMine(w http.ResponseWriter, r *http.Request)
	HistoryMine(w http.ResponseWriter, r *http.Request)
	TodayByUser(w http.ResponseWriter, r *http.Request)
	HistoryByUser(w http.ResponseWriter, r *http.Request)
	ListByCompany(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Submit implements AttendanceHandler.
func (h *attendanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, attendance.MaxPhotoSize+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := attendance.SubmitRequest{Kind: r.FormValue("kind")}

	var errs validator.ValidationErrors
	req.Latitude = formFloat(r, "latitude", &errs)
	req.Longitude = formFloat(r, "longitude", &errs)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	}

	result, err := h.attendanceService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// formFloat parses an optional numeric form field.
func formFloat(r *http.Request, field string, errs *validator.ValidationErrors) *float64 {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.Add(field, field+" must be a number")
		return nil
	}
	return &v
}

// ListMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.attendanceService.ListMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, list)
}

// TodayMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) TodayMine(w http.ResponseWriter, r *http.Request) {
	today, err := h.attendanceService.TodayMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, today)
}

// HistoryMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) HistoryMine(w http.ResponseWriter, r *http.Request) {
	history, err := h.attendanceService.HistoryMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}

// TodayByUser implements AttendanceHandler.
func (h *attendanceHandlerImpl) TodayByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	today, err := h.attendanceService.TodayByUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, today)
}

// HistoryByUser implements AttendanceHandler.
func (h *attendanceHandlerImpl) HistoryByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	history, err := h.attendanceService.HistoryByUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}

// ListByCompany implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if !validator.IsValidUUID(companyID) {
		response.HandleError(w, company.ErrCompanyNotFound)
		return
	}

	req := attendance.CompanyAttendanceRequest{Period: r.URL.Query().Get("period")}
	list, err := h.attendanceService.ListByCompany(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, list)
}

// Validate implements AttendanceHandler.
func (h *attendanceHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, attendance.ErrAttendanceNotFound)
		return
	}

	var req attendance.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Validate attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.OverrideValidity(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, result.Message, result)
}
