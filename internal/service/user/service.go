package user

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
)

// MaxProfilePhotoSize bounds profile photo uploads.
const MaxProfilePhotoSize = 5 << 20

type ProfileServiceImpl struct {
	user.UserRepository
	fileService file.FileService
}

func NewProfileService(userRepo user.UserRepository, fileService file.FileService) user.ProfileService {
	return &ProfileServiceImpl{UserRepository: userRepo, fileService: fileService}
}

// GetMe implements user.ProfileService.
func (p *ProfileServiceImpl) GetMe(ctx context.Context) (user.UserResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	me, err := p.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(me, p.fileService.GetFileURL), nil
}

// UpdateMe implements user.ProfileService. A new photo replaces the old
// file once the row is updated.
func (p *ProfileServiceImpl) UpdateMe(ctx context.Context, req user.UpdateProfileRequest, photo multipart.File, header *multipart.FileHeader) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	current, err := p.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}

	var photoRef *string
	if photo != nil && header != nil {
		if header.Size > MaxProfilePhotoSize {
			return user.UserResponse{}, user.ErrFileTooLarge
		}
		ref, err := p.fileService.UploadProfilePhoto(ctx, actor.UserID, photo, header.Filename)
		if err != nil {
			return user.UserResponse{}, err
		}
		photoRef = &ref
	}

	updated, err := p.UserRepository.UpdateProfile(ctx, actor.UserID, req, photoRef)
	if err != nil {
		if photoRef != nil {
			p.removePhoto(ctx, *photoRef)
		}
		return user.UserResponse{}, fmt.Errorf("failed to update profile: %w", err)
	}

	if photoRef != nil && current.ProfilePhotoRef != nil && *current.ProfilePhotoRef != *photoRef {
		p.removePhoto(ctx, *current.ProfilePhotoRef)
	}

	return user.NewUserResponse(updated, p.fileService.GetFileURL), nil
}

func (p *ProfileServiceImpl) removePhoto(ctx context.Context, ref string) {
	if err := p.fileService.DeleteFile(context.WithoutCancel(ctx), ref); err != nil {
		slog.WarnContext(ctx, "failed to delete profile photo", "photo_ref", ref, "error", err)
	}
}
