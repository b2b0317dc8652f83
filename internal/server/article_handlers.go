// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"hublish/internal/models"
	"hublish/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListArticles handles GET /api/articles. With title or tags query
// parameters this is a search; without either it is the global
// newest-first listing.
func (s *Server) ListArticles(c *fiber.Ctx) error {
	p, err := s.parsePager(c)
	if err != nil {
		return nil
	}

	result, err := s.articleService.SearchArticles(
		c.Context(), c.Query("title"), c.Query("tags"), s.optionalUserID(c), p)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetFeed handles GET /api/articles/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p, err := s.parsePager(c)
	if err != nil {
		return nil
	}

	result, err := s.articleService.Feed(c.Context(), currentUserID(c), p)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetUserArticles handles GET /api/users/:username/articles
func (s *Server) GetUserArticles(c *fiber.Ctx) error {
	p, err := s.parsePager(c)
	if err != nil {
		return nil
	}

	result, err := s.articleService.ListByAuthor(
		c.Context(), c.Params("username"), s.optionalUserID(c), p)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetUserFavourites handles GET /api/users/:username/favourites
func (s *Server) GetUserFavourites(c *fiber.Ctx) error {
	p, err := s.parsePager(c)
	if err != nil {
		return nil
	}

	result, err := s.articleService.ListByFavouriter(
		c.Context(), c.Params("username"), s.optionalUserID(c), p)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetArticle handles GET /api/articles/:slug
func (s *Server) GetArticle(c *fiber.Ctx) error {
	article, err := s.articleService.GetBySlug(c.Context(), c.Params("slug"), s.optionalUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// CreateArticle handles POST /api/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.CreateArticle(c.Context(), service.CreateArticleInput{
		AuthorID: currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"article": article})
}

// UpdateArticle handles PUT /api/articles/:slug
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.UpdateArticle(c.Context(), service.UpdateArticleInput{
		UserID:  currentUserID(c),
		Slug:    c.Params("slug"),
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// DeleteArticle handles DELETE /api/articles/:slug
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	if err := s.articleService.DeleteArticle(c.Context(), currentUserID(c), c.Params("slug")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Article deleted"})
}

// FavouriteArticle handles POST /api/articles/:slug/favourite
func (s *Server) FavouriteArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Favourite(c.Context(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// UnfavouriteArticle handles DELETE /api/articles/:slug/favourite
func (s *Server) UnfavouriteArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Unfavourite(c.Context(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}
