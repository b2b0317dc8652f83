package service

import (
	"context"

	"hublish/internal/models"
	"hublish/internal/repository"
)

// CommentService owns comments on articles.
type CommentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
}

// CreateCommentInput carries the fields for a new comment.
type CreateCommentInput struct {
	UserID  uint
	Slug    string
	Content string
}

// DeleteCommentInput identifies a comment to delete.
type DeleteCommentInput struct {
	UserID    uint
	Slug      string
	CommentID uint
}

// NewCommentService creates a CommentService.
func NewCommentService(commentRepo repository.CommentRepository, articleRepo repository.ArticleRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, articleRepo: articleRepo}
}

// CreateComment adds a comment to the article identified by slug.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}

	const maxCommentLen = 10000

	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Content:   in.Content,
		UserID:    in.UserID,
		ArticleID: article.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the article's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, slug string) ([]*models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ListByArticle(ctx, article.ID)
}

// DeleteComment removes a comment owned by the caller. The comment must
// belong to the named article.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	article, err := s.articleRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.ArticleID != article.ID {
		return models.NewNotFoundError("Comment", in.CommentID)
	}
	if comment.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}
