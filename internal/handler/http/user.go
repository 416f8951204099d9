package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
)

type UserHandler interface {
	GetMe(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	profileService user.ProfileService
	translator     *i18n.Translator
}

func NewUserHandler(profileService user.ProfileService, translator *i18n.Translator) UserHandler {
	return &userHandlerImpl{profileService: profileService, translator: translator}
}

// GetMe implements UserHandler.
func (h *userHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	me, err := h.profileService.GetMe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, me)
}

// UpdateMe implements UserHandler. The body is multipart with an optional
// profile_photo part.
func (h *userHandlerImpl) UpdateMe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := user.UpdateProfileRequest{
		Name:       r.FormValue("name"),
		BirthPlace: r.FormValue("birth_place"),
		BirthDate:  r.FormValue("birth_date"),
	}
	if gender := r.FormValue("gender"); gender != "" {
		req.Gender = &gender
	}

	file, fileHeader, err := r.FormFile("profile_photo")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
	}

	updated, err := h.profileService.UpdateMe(r.Context(), req, file, fileHeader)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.translator.T(r.Context(), "user.profile_updated"), updated)
}
