// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Article represents a published article in the Hublish application.
type Article struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Slug    string `gorm:"uniqueIndex;not null" json:"slug"`
	Content string `gorm:"type:text;not null" json:"content"`
	// Tags is stored as a JSON-serialized text column so the same
	// predicates run on postgres and the sqlite test driver.
	Tags []string `gorm:"serializer:json;type:text" json:"tags"`
	// FavouriteCount is denormalized; the article repository updates it
	// in the same transaction as the favourite relation.
	FavouriteCount int            `gorm:"not null;default:0" json:"favourite_count"`
	AuthorID       uint           `gorm:"not null;index" json:"author_id"`
	Author         User           `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// EnrichedArticle is an Article with viewer- and author-relative fields
// attached at query time. It is constructed per request, never persisted.
type EnrichedArticle struct {
	Article
	Author     UserSummary `json:"author"`
	Favourited bool        `json:"favourited"`
}
