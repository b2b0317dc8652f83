package service

import (
	"context"

	"hublish/internal/events"
	"hublish/internal/featureflags"
	"hublish/internal/models"
	"hublish/internal/repository"
)

// FollowService owns the follow toggle between users.
type FollowService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	events     *events.Publisher
	flags      *featureflags.Manager
}

// NewFollowService creates a FollowService.
func NewFollowService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	publisher *events.Publisher,
	flags *featureflags.Manager,
) *FollowService {
	return &FollowService{userRepo: userRepo, followRepo: followRepo, events: publisher, flags: flags}
}

// Follow makes the caller follow the named user and returns the
// target's updated profile.
func (s *FollowService) Follow(ctx context.Context, followerID uint, username string) (*models.Profile, error) {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	if err := s.followRepo.Follow(ctx, followerID, target.ID); err != nil {
		return nil, err
	}

	if s.flags.EnabledOrDefault("domain_events", followerID, true) {
		s.events.Publish(ctx, events.Envelope{
			Type:      events.TypeUserFollowed,
			ActorID:   followerID,
			SubjectID: target.ID,
		})
	}

	return s.reloadProfile(ctx, target.ID, true)
}

// Unfollow makes the caller unfollow the named user and returns the
// target's updated profile.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, username string) (*models.Profile, error) {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, models.NewValidationError("You cannot unfollow yourself")
	}

	if err := s.followRepo.Unfollow(ctx, followerID, target.ID); err != nil {
		return nil, err
	}

	if s.flags.EnabledOrDefault("domain_events", followerID, true) {
		s.events.Publish(ctx, events.Envelope{
			Type:      events.TypeUserUnfollowed,
			ActorID:   followerID,
			SubjectID: target.ID,
		})
	}

	return s.reloadProfile(ctx, target.ID, false)
}

func (s *FollowService) resolve(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// reloadProfile re-reads the target after the toggle so the returned
// counters reflect the committed transaction.
func (s *FollowService) reloadProfile(ctx context.Context, targetID uint, following bool) (*models.Profile, error) {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	profile := target.Profile(following)
	return &profile, nil
}
