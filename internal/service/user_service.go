package service

import (
	"context"

	"hublish/internal/models"
	"hublish/internal/repository"
)

// UserService owns profile reads and self-updates.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// UpdateProfileInput carries the changeable profile fields. Empty
// strings mean "leave unchanged".
type UpdateProfileInput struct {
	UserID uint
	Name   string
	Bio    string
	Image  string
}

// NewUserService creates a UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// GetUserByID returns the user record for the given id.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns the named user's public profile with the
// viewer-relative following flag. viewerID 0 means unauthenticated and
// always reads Following as false.
func (s *UserService) GetProfile(ctx context.Context, username string, viewerID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	following := false
	if viewerID != 0 && viewerID != user.ID {
		following, err = s.followRepo.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	profile := user.Profile(following)
	return &profile, nil
}

// UpdateProfile applies changes to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxNameLen = 100

	if in.Name != "" {
		if len(in.Name) > maxNameLen {
			return nil, models.NewValidationError("Name too long (max 100 characters)")
		}
		user.Name = in.Name
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Image != "" {
		user.Image = in.Image
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
