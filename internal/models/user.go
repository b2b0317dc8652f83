// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user account in the Hublish application.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	// FollowerCount and FollowingCount are denormalized; the follow
	// repository updates them in the same transaction as the relation.
	FollowerCount  int            `gorm:"not null;default:0" json:"follower_count"`
	FollowingCount int            `gorm:"not null;default:0" json:"following_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Articles       []Article      `gorm:"foreignKey:AuthorID" json:"articles,omitempty"`
}

// UserSummary is the public author view embedded in enriched articles.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// Summary returns the public author view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Bio:      u.Bio,
		Image:    u.Image,
	}
}

// Profile is the public profile view, viewer-relative.
type Profile struct {
	Username       string `json:"username"`
	Name           string `json:"name"`
	Bio            string `json:"bio"`
	Image          string `json:"image"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	Following      bool   `json:"following"`
}

// Profile returns the public profile view with the viewer-relative
// following flag filled in by the caller.
func (u *User) Profile(following bool) Profile {
	return Profile{
		Username:       u.Username,
		Name:           u.Name,
		Bio:            u.Bio,
		Image:          u.Image,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		Following:      following,
	}
}
