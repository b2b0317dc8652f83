package models

import "time"

// Favourite represents a user's favourite on an article.
// The combination of UserID and ArticleID must be unique. Rows are
// hard-deleted on unfavourite so the pair can be favourited again.
type Favourite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favourites_user_article" json:"user_id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_favourites_user_article" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Article Article `gorm:"foreignKey:ArticleID" json:"-"`
}

// TableName specifies the table name for GORM.
func (Favourite) TableName() string {
	return "favourites"
}
