package repositories

import (
	"context"
	"time"

	"github.com/inkwell-hq/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CommentRepository manages the comment sub-entities embedded in posts.
// Mutations are single atomic array updates; edit and delete carry the
// owning user in the update filter so an ownership check can never be
// bypassed by a concurrent write.
type CommentRepository interface {
	AddComment(ctx context.Context, postID string, comment *models.Comment) error
	UpdateComment(ctx context.Context, postID string, commentID primitive.ObjectID, userID uint, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, postID string, commentID primitive.ObjectID, userID uint) error
}

// MongoCommentRepository implements CommentRepository on the posts collection
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("posts")}
}

// AddComment appends a comment to the post's comment sequence. The comment
// ID and timestamps are assigned here so the pushed document is complete.
func (r *MongoCommentRepository) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrInvalidID
	}

	now := time.Now()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// UpdateComment replaces the text of the user's own comment and bumps its
// updated_at. The positional update only matches when the comment still
// exists and belongs to the user.
func (r *MongoCommentRepository) UpdateComment(ctx context.Context, postID string, commentID primitive.ObjectID, userID uint, text string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrInvalidID
	}

	now := time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":      objID,
			"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "user": userID}},
		},
		bson.M{"$set": bson.M{
			"comments.$.text":       text,
			"comments.$.updated_at": now,
			"updated_at":            now,
		}},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrCommentNotFound
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		return nil, err
	}
	comment := post.FindComment(commentID)
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// DeleteComment removes the user's own comment from the sequence
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, postID string, commentID primitive.ObjectID, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrInvalidID
	}

	// No timestamp bump here: ModifiedCount must reflect the pull alone
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID, "user": userID}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrCommentNotFound
	}
	return nil
}
