package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/inkwell-hq/inkwell/backend/internal/models"
	"github.com/inkwell-hq/inkwell/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddComment(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)
	h := NewCommentHandler(commentRepo, postRepo, userRepo)

	commentRepo.On("AddComment", mock.Anything, testPostID, mock.MatchedBy(func(cm *models.Comment) bool {
		return cm.User == 2 && cm.Text == "great read"
	})).Return(nil)
	userRepo.On("GetUserByID", uint(2)).
		Return(&models.User{ID: 2, Name: "Ana", AvatarURL: "https://cdn.example.com/a.png"}, nil)

	c, rec := newTestContext(http.MethodPost, "/api/posts/"+testPostID+"/comments", `{"text":"great read"}`, 2)
	c.SetParamNames("id")
	c.SetParamValues(testPostID)

	err := h.AddComment(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp models.CommentView
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "great read", resp.Text)
	assert.Equal(t, "Ana", resp.UserInfo.Name)
	assert.Equal(t, "https://cdn.example.com/a.png", resp.UserInfo.AvatarURL)
}

func TestAddCommentEmptyText(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	h := NewCommentHandler(commentRepo, new(MockPostRepository), new(MockUserRepository))

	c, rec := newTestContext(http.MethodPost, "/api/posts/"+testPostID+"/comments", `{"text":""}`, 2)
	c.SetParamNames("id")
	c.SetParamValues(testPostID)

	err := h.AddComment(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
	commentRepo.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddCommentPostMissing(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	h := NewCommentHandler(commentRepo, new(MockPostRepository), new(MockUserRepository))

	commentRepo.On("AddComment", mock.Anything, testPostID, mock.Anything).
		Return(repositories.ErrPostNotFound)

	c, rec := newTestContext(http.MethodPost, "/api/posts/"+testPostID+"/comments", `{"text":"hi"}`, 2)
	c.SetParamNames("id")
	c.SetParamValues(testPostID)

	err := h.AddComment(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(err, rec))
}

func TestUpdateCommentForbiddenForOtherUser(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	h := NewCommentHandler(commentRepo, postRepo, new(MockUserRepository))

	commentID := primitive.NewObjectID()
	postRepo.On("GetPostByID", mock.Anything, testPostID).Return(&models.Post{
		Comments: []models.Comment{{ID: commentID, User: 1, Text: "mine"}},
	}, nil)

	c, rec := newTestContext(http.MethodPut, "/api/posts/"+testPostID+"/comments/"+commentID.Hex(), `{"text":"hijacked"}`, 2)
	c.SetParamNames("id", "commentId")
	c.SetParamValues(testPostID, commentID.Hex())

	err := h.UpdateComment(c)
	assert.Equal(t, http.StatusForbidden, httpStatus(err, rec))
	// The guarded write must never run for a foreign comment
	commentRepo.AssertNotCalled(t, "UpdateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateCommentByAuthor(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	h := NewCommentHandler(commentRepo, postRepo, new(MockUserRepository))

	commentID := primitive.NewObjectID()
	postRepo.On("GetPostByID", mock.Anything, testPostID).Return(&models.Post{
		Comments: []models.Comment{{ID: commentID, User: 2, Text: "before"}},
	}, nil)
	commentRepo.On("UpdateComment", mock.Anything, testPostID, commentID, uint(2), "after").
		Return(&models.Comment{ID: commentID, User: 2, Text: "after"}, nil)

	c, rec := newTestContext(http.MethodPut, "/api/posts/"+testPostID+"/comments/"+commentID.Hex(), `{"text":"after"}`, 2)
	c.SetParamNames("id", "commentId")
	c.SetParamValues(testPostID, commentID.Hex())

	err := h.UpdateComment(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.Comment
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "after", resp.Text)
	commentRepo.AssertExpectations(t)
}

func TestDeleteCommentMissingComment(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	h := NewCommentHandler(commentRepo, postRepo, new(MockUserRepository))

	commentID := primitive.NewObjectID()
	postRepo.On("GetPostByID", mock.Anything, testPostID).Return(&models.Post{}, nil)

	c, rec := newTestContext(http.MethodDelete, "/api/posts/"+testPostID+"/comments/"+commentID.Hex(), "", 2)
	c.SetParamNames("id", "commentId")
	c.SetParamValues(testPostID, commentID.Hex())

	err := h.DeleteComment(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(err, rec))
}

func TestDeleteCommentByAuthor(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	h := NewCommentHandler(commentRepo, postRepo, new(MockUserRepository))

	commentID := primitive.NewObjectID()
	postRepo.On("GetPostByID", mock.Anything, testPostID).Return(&models.Post{
		Comments: []models.Comment{{ID: commentID, User: 2, Text: "bye"}},
	}, nil)
	commentRepo.On("DeleteComment", mock.Anything, testPostID, commentID, uint(2)).Return(nil)

	c, rec := newTestContext(http.MethodDelete, "/api/posts/"+testPostID+"/comments/"+commentID.Hex(), "", 2)
	c.SetParamNames("id", "commentId")
	c.SetParamValues(testPostID, commentID.Hex())

	err := h.DeleteComment(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	commentRepo.AssertExpectations(t)
}

func TestAddCommentWhitespaceText(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	h := NewCommentHandler(commentRepo, new(MockPostRepository), new(MockUserRepository))

	c, rec := newTestContext(http.MethodPost, "/api/posts/"+testPostID+"/comments", `{"text":"  \t "}`, 2)
	c.SetParamNames("id")
	c.SetParamValues(testPostID)

	err := h.AddComment(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
	commentRepo.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddCommentTrimsText(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	userRepo := new(MockUserRepository)
	h := NewCommentHandler(commentRepo, new(MockPostRepository), userRepo)

	commentRepo.On("AddComment", mock.Anything, testPostID, mock.MatchedBy(func(cm *models.Comment) bool {
		return cm.Text == "trimmed"
	})).Return(nil)
	userRepo.On("GetUserByID", uint(2)).Return(&models.User{ID: 2, Name: "Ana"}, nil)

	c, rec := newTestContext(http.MethodPost, "/api/posts/"+testPostID+"/comments", `{"text":"  trimmed  "}`, 2)
	c.SetParamNames("id")
	c.SetParamValues(testPostID)

	err := h.AddComment(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	commentRepo.AssertExpectations(t)
}
