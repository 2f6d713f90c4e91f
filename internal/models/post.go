package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post stored in MongoDB. Likes and bookmarks are
// sets of user IDs; reactions hold at most one entry per user.
type Post struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Author        uint                `json:"author" bson:"author"`
	Title         string              `json:"title" bson:"title"`
	Content       string              `json:"content" bson:"content"`
	Tags          []string            `json:"tags" bson:"tags"`
	CoverImageURL string              `json:"coverImageUrl" bson:"cover_image_url"`
	Likes         []uint              `json:"likes" bson:"likes"`
	Bookmarks     []uint              `json:"bookmarks" bson:"bookmarks"`
	Reactions     []Reaction          `json:"reactions" bson:"reactions"`
	Comments      []Comment           `json:"comments" bson:"comments"`
	RepostOf      *primitive.ObjectID `json:"repostOf,omitempty" bson:"repost_of,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updated_at"`
}

// Reaction is a single emoji choice by one user on one post
type Reaction struct {
	User  uint   `json:"user" bson:"user"`
	Emoji string `json:"emoji" bson:"emoji"`
}

// Comment is an embedded sub-entity of a post with its own identity
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	User      uint               `json:"user" bson:"user"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// TallyReactions aggregates a post's reactions into emoji -> count
func TallyReactions(reactions []Reaction) map[string]int {
	counts := make(map[string]int, len(reactions))
	for _, r := range reactions {
		counts[r.Emoji]++
	}
	return counts
}

// FindComment returns the comment with the given id, or nil
func (p *Post) FindComment(commentID primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

// PostView is a post enriched with its author's public fields
type PostView struct {
	Post
	AuthorInfo UserCompact `json:"authorInfo"`
}

// CommentView is a comment enriched with the commenting user's public fields
type CommentView struct {
	Comment
	UserInfo UserCompact `json:"userInfo"`
}

// PostListFilter carries the query parameters of the post listing endpoint
type PostListFilter struct {
	Query string
	Tag   string
	Page  int
	Limit int
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Content       string   `json:"content" validate:"required,min=1"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	CoverImageURL string   `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Nil fields are left unchanged on the stored document.
type UpdatePostRequest struct {
	Title         *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content       *string   `json:"content,omitempty" validate:"omitempty,min=1"`
	Tags          *[]string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
}

// CommentRequest defines the request body for adding or editing a comment
type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// ReactRequest defines the request body for reacting to a post
type ReactRequest struct {
	Emoji string `json:"emoji" validate:"required,min=1"`
}
