// Package service contains the application's business logic, composed
// from repositories and the listing engine.
package service

import (
	"context"
	"strings"

	"hublish/internal/events"
	"hublish/internal/featureflags"
	"hublish/internal/listing"
	"hublish/internal/models"
	"hublish/internal/repository"
	"hublish/internal/validation"

	"github.com/google/uuid"
)

// ArticleService owns article CRUD, the favourite toggle, and the four
// listing entry points. Every listing call goes through the one
// aggregation engine; the entry points differ only in how they build
// the filter and whether a username has to be resolved first.
type ArticleService struct {
	articleRepo repository.ArticleRepository
	userRepo    repository.UserRepository
	engine      *listing.Engine
	events      *events.Publisher
	flags       *featureflags.Manager
}

// CreateArticleInput carries the fields for a new article.
type CreateArticleInput struct {
	AuthorID uint
	Title    string
	Content  string
	Tags     []string
}

// UpdateArticleInput carries the changeable fields of an article.
// Empty title/content mean "leave unchanged"; a nil Tags slice does too.
type UpdateArticleInput struct {
	UserID  uint
	Slug    string
	Title   string
	Content string
	Tags    []string
}

// NewArticleService creates an ArticleService.
func NewArticleService(
	articleRepo repository.ArticleRepository,
	userRepo repository.UserRepository,
	engine *listing.Engine,
	publisher *events.Publisher,
	flags *featureflags.Manager,
) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		userRepo:    userRepo,
		engine:      engine,
		events:      publisher,
		flags:       flags,
	}
}

// Feed lists articles authored by users the viewer follows.
func (s *ArticleService) Feed(ctx context.Context, viewerID uint, p listing.Pager) (*models.PagedResult[models.EnrichedArticle], error) {
	return s.engine.Run(ctx, listing.Feed(viewerID), viewerID, p)
}

// ListByAuthor lists articles written by the named user.
func (s *ArticleService) ListByAuthor(ctx context.Context, username string, viewerID uint, p listing.Pager) (*models.PagedResult[models.EnrichedArticle], error) {
	author, err := s.resolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.engine.Run(ctx, listing.ByAuthor(author.ID), viewerID, p)
}

// ListByFavouriter lists articles the named user has favourited.
func (s *ArticleService) ListByFavouriter(ctx context.Context, username string, viewerID uint, p listing.Pager) (*models.PagedResult[models.EnrichedArticle], error) {
	target, err := s.resolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.engine.Run(ctx, listing.ByFavourite(target.ID), viewerID, p)
}

// SearchArticles lists articles matching the optional title and tags
// terms. With both terms empty this is the unfiltered, newest-first
// article listing.
func (s *ArticleService) SearchArticles(ctx context.Context, title, tags string, viewerID uint, p listing.Pager) (*models.PagedResult[models.EnrichedArticle], error) {
	return s.engine.Run(ctx, listing.Search(title, tags), viewerID, p)
}

// GetBySlug returns one article enriched for the optional viewer.
func (s *ArticleService) GetBySlug(ctx context.Context, slug string, viewerID uint) (*models.EnrichedArticle, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	enriched, err := s.engine.Enrich(ctx, []models.Article{*article}, viewerID)
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// CreateArticle validates input, generates the slug, and persists the
// article.
func (s *ArticleService) CreateArticle(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if err := validation.ValidateArticleTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	article := &models.Article{
		Title:    in.Title,
		Slug:     generateSlug(in.Title),
		Content:  in.Content,
		Tags:     normalizeTags(in.Tags),
		AuthorID: in.AuthorID,
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Envelope{
		Type:    events.TypeArticleCreated,
		ActorID: in.AuthorID,
		Slug:    article.Slug,
	})
	return article, nil
}

// UpdateArticle applies changes to an article owned by the caller.
func (s *ArticleService) UpdateArticle(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own articles")
	}

	if in.Title != "" {
		if err := validation.ValidateArticleTitle(in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		article.Title = in.Title
	}
	if in.Content != "" {
		article.Content = in.Content
	}
	if in.Tags != nil {
		article.Tags = normalizeTags(in.Tags)
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// DeleteArticle removes an article owned by the caller.
func (s *ArticleService) DeleteArticle(ctx context.Context, userID uint, slug string) error {
	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if article.AuthorID != userID {
		return models.NewUnauthorizedError("You can only delete your own articles")
	}
	return s.articleRepo.Delete(ctx, article)
}

// Favourite records the viewer's favourite and returns the article with
// its updated counter.
func (s *ArticleService) Favourite(ctx context.Context, viewerID uint, slug string) (*models.Article, error) {
	article, err := s.articleRepo.Favourite(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Envelope{
		Type:      events.TypeArticleFavourited,
		ActorID:   viewerID,
		SubjectID: article.AuthorID,
		Slug:      article.Slug,
	})
	return article, nil
}

// Unfavourite removes the viewer's favourite and returns the article
// with its updated counter.
func (s *ArticleService) Unfavourite(ctx context.Context, viewerID uint, slug string) (*models.Article, error) {
	article, err := s.articleRepo.Unfavourite(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Envelope{
		Type:      events.TypeArticleUnfavoured,
		ActorID:   viewerID,
		SubjectID: article.AuthorID,
		Slug:      article.Slug,
	})
	return article, nil
}

func (s *ArticleService) resolveUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

func (s *ArticleService) publish(ctx context.Context, env events.Envelope) {
	if !s.flags.EnabledOrDefault("domain_events", env.ActorID, true) {
		return
	}
	s.events.Publish(ctx, env)
}

// generateSlug builds a URL slug from the title plus a short random
// suffix so title collisions never collide on slug.
func generateSlug(title string) string {
	return slugify(title) + "-" + uuid.New().String()[:8]
}

func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
