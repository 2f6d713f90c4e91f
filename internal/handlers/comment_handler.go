package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-hq/inkwell/backend/internal/models"
	"github.com/inkwell-hq/inkwell/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.AddComment)
	g.PUT("/posts/:id/comments/:commentId", h.UpdateComment)
	g.DELETE("/posts/:id/comments/:commentId", h.DeleteComment)
}

// AddComment appends a comment to a post and returns it with the commenting
// user's public fields
func (h *CommentHandler) AddComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Text = strings.TrimSpace(req.Text)

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	comment := &models.Comment{
		User: currentUserID,
		Text: req.Text,
	}
	if err := h.commentRepository.AddComment(c.Request().Context(), postID, comment); err != nil {
		return postLookupError(err)
	}

	view := models.CommentView{Comment: *comment}
	if user, err := h.userRepository.GetUserByID(currentUserID); err == nil {
		view.UserInfo = user.ToCompact()
	}

	return c.JSON(http.StatusCreated, view)
}

// UpdateComment replaces the text of the caller's own comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Text = strings.TrimSpace(req.Text)

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	if err := h.authorizeComment(c, postID, commentID, currentUserID); err != nil {
		return err
	}

	comment, err := h.commentRepository.UpdateComment(c.Request().Context(), postID, commentID, currentUserID, req.Text)
	if err != nil {
		if err == repositories.ErrCommentNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return postLookupError(err)
	}

	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes the caller's own comment from a post
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.authorizeComment(c, postID, commentID, currentUserID); err != nil {
		return err
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), postID, commentID, currentUserID); err != nil {
		if err == repositories.ErrCommentNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return postLookupError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted"})
}

// authorizeComment distinguishes missing post, missing comment and foreign
// comment before the repository applies its ownership-guarded write
func (h *CommentHandler) authorizeComment(c echo.Context, postID string, commentID primitive.ObjectID, userID uint) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return postLookupError(err)
	}
	comment := post.FindComment(commentID)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.User != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this comment")
	}
	return nil
}
