package repository

import (
	"context"
	"errors"

	"hublish/internal/cache"
	"hublish/internal/models"
	"hublish/internal/observability"

	"gorm.io/gorm"
)

// ArticleRepository defines persistence operations for articles,
// including the transactional favourite toggle.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, article *models.Article) error
	IsFavourited(ctx context.Context, userID, articleID uint) (bool, error)
	Favourite(ctx context.Context, userID uint, slug string) (*models.Article, error)
	Unfavourite(ctx context.Context, userID uint, slug string) (*models.Article, error)
}

type articleRepository struct {
	base
}

// NewArticleRepository returns a new ArticleRepository implementation.
func NewArticleRepository(db, readDB *gorm.DB) ArticleRepository {
	return &articleRepository{base{db: db, readDB: readDB}}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("article slug already exists")
		}
		return models.NewStorageError(err)
	}
	return nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	key := cache.ArticleKey(slug)

	err := cache.Aside(ctx, key, &article, cache.ArticleTTL, func() error {
		if err := r.read().WithContext(ctx).Where("slug = ?", slug).First(&article).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Article", slug)
			}
			return models.NewStorageError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		return models.NewStorageError(err)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Delete(&models.Article{}, article.ID).Error; err != nil {
		return models.NewStorageError(err)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

func (r *articleRepository) IsFavourited(ctx context.Context, userID, articleID uint) (bool, error) {
	var count int64
	if err := r.read().WithContext(ctx).
		Model(&models.Favourite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error; err != nil {
		return false, models.NewStorageError(err)
	}
	return count > 0, nil
}

// Favourite creates the favourite relation and increments the article's
// denormalized counter in one transaction. A relation that already
// exists yields Conflict and leaves the counter untouched; both writes
// commit or neither does.
func (r *articleRepository) Favourite(ctx context.Context, userID uint, slug string) (*models.Article, error) {
	var out models.Article

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := articleBySlugForUpdate(tx, slug)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Favourite{}).
			Where("user_id = ? AND article_id = ?", userID, article.ID).
			Count(&count).Error; err != nil {
			return models.NewStorageError(err)
		}
		if count > 0 {
			return models.NewConflictError("article already favourited")
		}

		fav := models.Favourite{UserID: userID, ArticleID: article.ID}
		if err := tx.Create(&fav).Error; err != nil {
			// Concurrent toggle that won the race past the existence
			// check; the pair-unique index turns it into Conflict.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConflictError("article already favourited")
			}
			return models.NewStorageError(err)
		}

		if err := tx.Model(&models.Article{}).
			Where("id = ?", article.ID).
			UpdateColumn("favourite_count", gorm.Expr("favourite_count + ?", 1)).Error; err != nil {
			return models.NewStorageError(err)
		}

		if err := tx.First(&out, article.ID).Error; err != nil {
			return models.NewStorageError(err)
		}
		return nil
	})

	observability.FavouriteToggles.WithLabelValues("favourite", toggleOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	cache.InvalidateArticle(ctx, out.Slug)
	return &out, nil
}

// Unfavourite deletes the favourite relation and decrements the counter
// in one transaction. A missing relation yields NotFound, which also
// guarantees the counter can never go negative.
func (r *articleRepository) Unfavourite(ctx context.Context, userID uint, slug string) (*models.Article, error) {
	var out models.Article

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := articleBySlugForUpdate(tx, slug)
		if err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND article_id = ?", userID, article.ID).
			Delete(&models.Favourite{})
		if res.Error != nil {
			return models.NewStorageError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Favourite", slug)
		}

		if err := tx.Model(&models.Article{}).
			Where("id = ?", article.ID).
			UpdateColumn("favourite_count", gorm.Expr("favourite_count - ?", 1)).Error; err != nil {
			return models.NewStorageError(err)
		}

		if err := tx.First(&out, article.ID).Error; err != nil {
			return models.NewStorageError(err)
		}
		return nil
	})

	observability.FavouriteToggles.WithLabelValues("unfavourite", toggleOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	cache.InvalidateArticle(ctx, out.Slug)
	return &out, nil
}

// articleBySlugForUpdate loads the article inside the toggle
// transaction, always from the primary.
func articleBySlugForUpdate(tx *gorm.DB, slug string) (*models.Article, error) {
	var article models.Article
	if err := tx.Where("slug = ?", slug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", slug)
		}
		return nil, models.NewStorageError(err)
	}
	return &article, nil
}

func toggleOutcome(err error) string {
	switch models.ErrorCode(err) {
	case "":
		if err != nil {
			return "error"
		}
		return "success"
	case models.ErrCodeConflict:
		return "conflict"
	case models.ErrCodeNotFound:
		return "not_found"
	default:
		return "error"
	}
}
