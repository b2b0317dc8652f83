package listing

import (
	"context"

	"hublish/internal/models"
)

// Enrich attaches the author summary and the viewer-relative favourited
// flag to each article. It issues at most two batch queries (authors,
// favourite membership) and preserves the input ordering. With no
// viewer the favourite lookup is skipped entirely and favourited stays
// false.
func (e *Engine) Enrich(ctx context.Context, articles []models.Article, viewerID uint) ([]models.EnrichedArticle, error) {
	results := make([]models.EnrichedArticle, 0, len(articles))
	if len(articles) == 0 {
		return results, nil
	}

	authorIDs := make([]uint, 0, len(articles))
	articleIDs := make([]uint, 0, len(articles))
	seenAuthors := make(map[uint]struct{}, len(articles))
	for i := range articles {
		articleIDs = append(articleIDs, articles[i].ID)
		if _, ok := seenAuthors[articles[i].AuthorID]; ok {
			continue
		}
		seenAuthors[articles[i].AuthorID] = struct{}{}
		authorIDs = append(authorIDs, articles[i].AuthorID)
	}

	var authors []models.User
	if err := e.read().WithContext(ctx).
		Where("id IN ?", authorIDs).
		Find(&authors).Error; err != nil {
		return nil, models.NewStorageError(err)
	}
	authorByID := make(map[uint]*models.User, len(authors))
	for i := range authors {
		authorByID[authors[i].ID] = &authors[i]
	}

	favourited := make(map[uint]struct{})
	if viewerID != 0 {
		var favIDs []uint
		if err := e.read().WithContext(ctx).
			Model(&models.Favourite{}).
			Where("user_id = ? AND article_id IN ?", viewerID, articleIDs).
			Pluck("article_id", &favIDs).Error; err != nil {
			return nil, models.NewStorageError(err)
		}
		for _, id := range favIDs {
			favourited[id] = struct{}{}
		}
	}

	for i := range articles {
		enriched := models.EnrichedArticle{Article: articles[i]}
		// A missing author (deleted account) keeps the article in the
		// slice with a zero-value summary so ordering and counts hold.
		if author, ok := authorByID[articles[i].AuthorID]; ok {
			enriched.Author = author.Summary()
		}
		_, enriched.Favourited = favourited[articles[i].ID]
		results = append(results, enriched)
	}

	return results, nil
}
