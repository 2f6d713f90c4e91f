package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-hq/inkwell/backend/internal/models"
	"github.com/inkwell-hq/inkwell/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers the authenticated post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/repost", h.Repost)
}

// RegisterPublicPostRoutes registers the public read routes
func (h *PostHandler) RegisterPublicPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		Author:        currentUserID,
		Title:         req.Title,
		Content:       req.Content,
		Tags:          req.Tags,
		CoverImageURL: req.CoverImageURL,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// PostDetail is a post with its author and comment authors projected
type PostDetail struct {
	models.Post
	AuthorInfo models.UserCompact   `json:"authorInfo"`
	Comments   []models.CommentView `json:"comments"`
}

// GetPost retrieves a post by ID with author and comment users projected
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return postLookupError(err)
	}

	ids := make([]uint, 0, len(post.Comments)+1)
	ids = append(ids, post.Author)
	for _, cm := range post.Comments {
		ids = append(ids, cm.User)
	}
	users, err := h.userRepository.GetUsersByIDs(ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	detail := PostDetail{
		Post:     *post,
		Comments: make([]models.CommentView, len(post.Comments)),
	}
	if author, ok := users[post.Author]; ok {
		detail.AuthorInfo = author.ToCompact()
	}
	for i, cm := range post.Comments {
		view := models.CommentView{Comment: cm}
		if u, ok := users[cm.User]; ok {
			view.UserInfo = u.ToCompact()
		}
		detail.Comments[i] = view
	}

	return c.JSON(http.StatusOK, detail)
}

// ListPosts returns a page of posts matching the text/tag filter, newest
// first, with author fields projected and the total matching count
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	filter := models.PostListFilter{
		Query: c.QueryParam("q"),
		Tag:   c.QueryParam("tag"),
		Page:  page,
		Limit: limit,
	}

	posts, total, err := h.postRepository.ListPosts(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authorIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]bool)
	for _, p := range posts {
		if !seen[p.Author] {
			seen[p.Author] = true
			authorIDs = append(authorIDs, p.Author)
		}
	}
	users, err := h.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items := make([]models.PostView, len(posts))
	for i, p := range posts {
		view := models.PostView{Post: p}
		if u, ok := users[p.Author]; ok {
			view.AuthorInfo = u.ToCompact()
		}
		items[i] = view
	}

	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

// UpdatePost applies a merge-patch update to the caller's own post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	existingPost, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return postLookupError(err)
	}
	if existingPost.Author != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}
	if req.Tags != nil {
		set["tags"] = *req.Tags
	}
	if req.CoverImageURL != nil {
		set["cover_image_url"] = *req.CoverImageURL
	}
	if len(set) == 0 {
		return c.JSON(http.StatusOK, existingPost)
	}

	// The author is re-checked in the update filter, so the patch lands
	// in one atomic write
	updated, err := h.postRepository.UpdatePost(c.Request().Context(), postID, currentUserID, set)
	if err != nil {
		return postLookupError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

// DeletePost deletes the caller's own post
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	existingPost, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return postLookupError(err)
	}
	if existingPost.Author != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return postLookupError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}

// Repost creates an independent copy of the source post's content linked
// back to the original. Later edits to the source never propagate.
func (h *PostHandler) Repost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	original, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return postLookupError(err)
	}

	originalID := original.ID
	repost := &models.Post{
		Author:        currentUserID,
		Title:         original.Title,
		Content:       original.Content,
		Tags:          append([]string{}, original.Tags...),
		CoverImageURL: original.CoverImageURL,
		RepostOf:      &originalID,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), repost); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, repost)
}

// postLookupError maps repository errors for post lookups onto HTTP errors
func postLookupError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	case errors.Is(err, repositories.ErrPostNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
