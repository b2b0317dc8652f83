package repository

import (
	"context"
	"errors"

	"hublish/internal/cache"
	"hublish/internal/models"

	"gorm.io/gorm"
)

// FollowRepository manages the follower graph and the denormalized
// follower/following counters on both users.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followingID uint) error
	Unfollow(ctx context.Context, followerID, followingID uint) error
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
}

type followRepository struct {
	base
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db, readDB *gorm.DB) FollowRepository {
	return &followRepository{base{db: db, readDB: readDB}}
}

// Follow creates the relation and bumps both counters in one
// transaction, the same all-or-nothing discipline as the favourite
// toggle. Following an already-followed user yields Conflict.
func (r *followRepository) Follow(ctx context.Context, followerID, followingID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Count(&count).Error; err != nil {
			return models.NewStorageError(err)
		}
		if count > 0 {
			return models.NewConflictError("already following this user")
		}

		follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
		if err := tx.Create(&follow).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConflictError("already following this user")
			}
			return models.NewStorageError(err)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count + ?", 1)).Error; err != nil {
			return models.NewStorageError(err)
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", followingID).
			UpdateColumn("follower_count", gorm.Expr("follower_count + ?", 1)).Error; err != nil {
			return models.NewStorageError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followingID)
	return nil
}

// Unfollow deletes the relation and decrements both counters in one
// transaction. A missing relation yields NotFound.
func (r *followRepository) Unfollow(ctx context.Context, followerID, followingID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return models.NewStorageError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Follow", followingID)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count - ?", 1)).Error; err != nil {
			return models.NewStorageError(err)
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", followingID).
			UpdateColumn("follower_count", gorm.Expr("follower_count - ?", 1)).Error; err != nil {
			return models.NewStorageError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followingID)
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.read().WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, models.NewStorageError(err)
	}
	return count > 0, nil
}
