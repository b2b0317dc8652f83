// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"hublish/internal/models"
	"hublish/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/articles/:slug/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.Context(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment handles POST /api/articles/:slug/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:  currentUserID(c),
		Slug:    c.Params("slug"),
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if comment.UserID != currentUserID(c) {
		return respondServiceError(c,
			models.NewUnauthorizedError("You can only delete your own comments"))
	}

	if err := s.commentRepo.Delete(c.Context(), commentID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
