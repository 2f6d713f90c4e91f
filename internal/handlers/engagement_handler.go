package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-hq/inkwell/backend/internal/models"
	"github.com/inkwell-hq/inkwell/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// EngagementHandler handles likes, bookmarks and reactions on posts
type EngagementHandler struct {
	engagementRepository repositories.EngagementRepository
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(engagementRepo repositories.EngagementRepository) *EngagementHandler {
	return &EngagementHandler{engagementRepository: engagementRepo}
}

// RegisterEngagementRoutes registers the authenticated engagement routes
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/bookmark", h.ToggleBookmark)
	g.POST("/posts/:id/react", h.React)
}

// RegisterPublicEngagementRoutes registers the public read routes
func (h *EngagementHandler) RegisterPublicEngagementRoutes(g *echo.Group) {
	g.GET("/posts/:id/reactions", h.GetReactions)
}

// ToggleLike flips the caller's membership in the post's like set and
// returns the new like count. Toggling never errors on current state.
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	likes, err := h.engagementRepository.ToggleLike(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		return postLookupError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"likes": likes})
}

// ToggleBookmark flips the caller's membership in the post's bookmark set
func (h *EngagementHandler) ToggleBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	bookmarks, err := h.engagementRepository.ToggleBookmark(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		return postLookupError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"bookmarks": bookmarks})
}

// React records the caller's emoji reaction and returns the tally. The same
// emoji again removes the reaction; a different one replaces it.
func (h *EngagementHandler) React(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.ReactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Emoji = strings.TrimSpace(req.Emoji)

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "emoji is required")
	}

	counts, err := h.engagementRepository.React(c.Request().Context(), c.Param("id"), currentUserID, req.Emoji)
	if err != nil {
		return postLookupError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"reactions": counts})
}

// GetReactions returns the post's emoji tally without mutating anything
func (h *EngagementHandler) GetReactions(c echo.Context) error {
	counts, err := h.engagementRepository.GetReactions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return postLookupError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"reactions": counts})
}
