package listing

import (
	"context"

	"hublish/internal/models"
	"hublish/internal/observability"

	"gorm.io/gorm"
)

// Engine runs the aggregation pipeline shared by every listing query:
// filter, count, slice, enrich, page. The four entry points (feed,
// by-author, by-favouriter, search) differ only in the Filter they pass
// in.
type Engine struct {
	db     *gorm.DB
	readDB *gorm.DB
}

// NewEngine creates an Engine over explicit database handles. readDB
// may be nil, in which case all reads go to the primary.
func NewEngine(db, readDB *gorm.DB) *Engine {
	return &Engine{db: db, readDB: readDB}
}

func (e *Engine) read() *gorm.DB {
	if e.readDB != nil {
		return e.readDB
	}
	return e.db
}

// Run executes one listing query. The count and the slice are two
// independent reads (possibly against a lagging replica) and are not
// guaranteed to observe the same snapshot; under concurrent writes the
// total and the page contents may disagree by a small margin. That is
// an accepted property of the listing surface, not a bug to paper over
// with a transaction.
func (e *Engine) Run(ctx context.Context, f Filter, viewerID uint, p Pager) (*models.PagedResult[models.EnrichedArticle], error) {
	observability.ListingQueries.WithLabelValues(string(f.Mode)).Inc()

	base := func() *gorm.DB {
		return f.Apply(e.read().WithContext(ctx).Model(&models.Article{}))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, models.NewStorageError(err)
	}

	var slice []models.Article
	if err := base().
		Select("articles.*").
		Order("articles.created_at DESC").
		Offset(p.Skip()).
		Limit(p.Limit).
		Find(&slice).Error; err != nil {
		return nil, models.NewStorageError(err)
	}

	results, err := e.Enrich(ctx, slice, viewerID)
	if err != nil {
		return nil, err
	}

	return &models.PagedResult[models.EnrichedArticle]{
		TotalResults: total,
		TotalPages:   p.TotalPages(total),
		Page:         p.Page,
		Results:      results,
	}, nil
}
