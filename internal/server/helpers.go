// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"errors"
	"strconv"
	"strings"

	"hublish/internal/listing"
	"hublish/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parsePager extracts the limit and page query parameters. Missing
// parameters take the listing defaults; present parameters must parse
// as integers. Non-numeric or out-of-range values are rejected before
// any storage access.
func (s *Server) parsePager(c *fiber.Ctx) (listing.Pager, error) {
	limit := listing.DefaultLimit
	page := listing.DefaultPage

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewInvalidQueryError("limit must be an integer"))
			return listing.Pager{}, errResponseWritten
		}
		limit = n
	}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewInvalidQueryError("page must be an integer"))
			return listing.Pager{}, errResponseWritten
		}
		page = n
	}

	p, err := listing.NewPager(limit, page)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, err)
		return listing.Pager{}, errResponseWritten
	}
	return p, nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(param[:len(param)-2]) + " ID"
	}
	return param
}

// currentUserID reads the authenticated user id set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// statusForError maps application error codes to HTTP status codes.
func statusForError(err error) int {
	switch models.ErrorCode(err) {
	case models.ErrCodeInvalidQuery, models.ErrCodeValidation:
		return fiber.StatusBadRequest
	case models.ErrCodeUnauthorized:
		return fiber.StatusForbidden
	case models.ErrCodeNotFound:
		return fiber.StatusNotFound
	case models.ErrCodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError writes the JSON error response for a service or
// repository error.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}
