package user

import (
	"context"
	"mime/multipart"
)

// ProfileService serves the caller's own account.
type ProfileService interface {
	GetMe(ctx context.Context) (UserResponse, error)
	UpdateMe(ctx context.Context, req UpdateProfileRequest, photo multipart.File, header *multipart.FileHeader) (UserResponse, error)
}
