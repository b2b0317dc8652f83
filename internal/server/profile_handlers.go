// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"hublish/internal/models"
	"hublish/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:username
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.Context(), c.Params("username"), s.optionalUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// UpdateMyProfile handles PUT /api/profiles
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Name  string `json:"name"`
		Bio   string `json:"bio"`
		Image string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID: currentUserID(c),
		Name:   req.Name,
		Bio:    req.Bio,
		Image:  req.Image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// FollowUser handles POST /api/profiles/:username/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	profile, err := s.followService.Follow(c.Context(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// UnfollowUser handles DELETE /api/profiles/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	profile, err := s.followService.Unfollow(c.Context(), currentUserID(c), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}
