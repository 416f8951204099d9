package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// Error kinds, rendered as error.kind.
const (
	KindValidation     = "validation"
	KindAuthentication = "authentication"
	KindAuthorization  = "authorization"
	KindNotFound       = "not_found"
	KindConflict       = "conflict"
	KindRateLimit      = "rate_limit"
	KindGeo            = "geo"
	KindDependency     = "dependency"
	KindInternal       = "internal"
)

// ExposeInternalErrors puts the cause of unmapped errors into the response.
// Set from configuration; off in production.
var ExposeInternalErrors = false

type mapping struct {
	err    error
	status int
	kind   string
	code   string
}

var mappings = []mapping{
	// Validation
	{attendance.ErrInvalidKind, http.StatusBadRequest, KindValidation, "INVALID_KIND"},
	{attendance.ErrPhotoRequired, http.StatusBadRequest, KindValidation, "INVALID_FILE"},
	{user.ErrInvalidFileType, http.StatusBadRequest, KindValidation, "INVALID_FILE"},
	{user.ErrFileTooLarge, http.StatusBadRequest, KindValidation, "INVALID_FILE"},
	{user.ErrCompanyIDRequired, http.StatusBadRequest, KindValidation, "VALIDATION_ERROR"},
	{user.ErrNotAnEmployee, http.StatusBadRequest, KindValidation, "VALIDATION_ERROR"},

	// Authentication
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, KindAuthentication, "INVALID_CREDENTIALS"},
	{auth.ErrTokenExpired, http.StatusUnauthorized, KindAuthentication, "TOKEN_EXPIRED"},
	{auth.ErrTokenInvalid, http.StatusUnauthorized, KindAuthentication, "TOKEN_INVALID"},
	{auth.ErrRefreshTokenRevoked, http.StatusUnauthorized, KindAuthentication, "TOKEN_INVALID"},

	// Authorization
	{auth.ErrNotVerified, http.StatusForbidden, KindAuthorization, "NOT_VERIFIED"},
	{user.ErrCompanyScope, http.StatusForbidden, KindAuthorization, "COMPANY_SCOPE"},
	{user.ErrInsufficientPermission, http.StatusForbidden, KindAuthorization, "FORBIDDEN"},

	// Not found
	{attendance.ErrAttendanceNotFound, http.StatusNotFound, KindNotFound, "ATTENDANCE_NOT_FOUND"},
	{company.ErrCompanyNotFound, http.StatusNotFound, KindNotFound, "COMPANY_NOT_FOUND"},
	{user.ErrUserNotFound, http.StatusNotFound, KindNotFound, "USER_NOT_FOUND"},
	{storage.ErrFileNotFound, http.StatusNotFound, KindNotFound, "NOT_FOUND"},

	// Conflict
	{attendance.ErrAlreadyCheckedIn, http.StatusConflict, KindConflict, "ALREADY_CHECKIN"},
	{attendance.ErrAlreadyCheckedOut, http.StatusConflict, KindConflict, "ALREADY_CHECKOUT"},
	{attendance.ErrCheckinRequired, http.StatusConflict, KindConflict, "CHECKIN_REQUIRED"},
	{attendance.ErrDuplicateEvent, http.StatusConflict, KindConflict, "DUPLICATE_EVENT"},
	{user.ErrAlreadyVerified, http.StatusConflict, KindConflict, "ALREADY_VERIFIED"},
	{user.ErrNIKExists, http.StatusConflict, KindConflict, "NIK_EXISTS"},
	{company.ErrHasDependentEmployees, http.StatusConflict, KindConflict, "HAS_DEPENDENT_EMPLOYEES"},

	// Geo
	{geo.ErrNoLocationAvailable, http.StatusUnprocessableEntity, KindGeo, "NO_LOCATION"},
	{geo.ErrInvalidCoordinate, http.StatusUnprocessableEntity, KindGeo, "INVALID_COORDINATE"},
	{geo.ErrOutOfRegion, http.StatusUnprocessableEntity, KindGeo, "OUT_OF_REGION"},

	// Dependency
	{database.ErrStoreUnavailable, http.StatusServiceUnavailable, KindDependency, "STORE_UNAVAILABLE"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		Error(w, http.StatusUnprocessableEntity, KindValidation, validationCode(validationErrs), "Validation failed", validationErrs.ToMap())
		return
	}

	for _, m := range mappings {
		if errors.Is(err, m.err) {
			Error(w, m.status, m.kind, m.code, m.err.Error(), nil)
			return
		}
	}

	slog.Error("unhandled error", "error", err)
	message := "An unexpected error occurred"
	if ExposeInternalErrors && err != nil {
		message = err.Error()
	}
	InternalServerError(w, message)
}

// validationCode narrows VALIDATION_ERROR for the fields clients branch on.
func validationCode(errs validator.ValidationErrors) string {
	for _, e := range errs {
		switch e.Field {
		case "kind":
			return "INVALID_KIND"
		case "period":
			return "INVALID_PERIOD"
		case "photo", "profile_photo":
			return "INVALID_FILE"
		}
	}
	return "VALIDATION_ERROR"
}
