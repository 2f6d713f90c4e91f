package repositories

import (
	"context"
	"errors"

	"github.com/inkwell-hq/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EngagementRepository applies toggle and reaction semantics to a post's
// engagement fields. Every mutation is a single atomic document update
// expressed as an aggregation-pipeline update, so concurrent requests from
// different users can never clobber each other's writes and the
// one-entry-per-user invariants hold under races.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, postID string, userID uint) (int, error)
	ToggleBookmark(ctx context.Context, postID string, userID uint) (int, error)
	React(ctx context.Context, postID string, userID uint, emoji string) (map[string]int, error)
	GetReactions(ctx context.Context, postID string) (map[string]int, error)
}

// MongoEngagementRepository implements EngagementRepository on the posts collection
type MongoEngagementRepository struct {
	collection *mongo.Collection
}

// NewMongoEngagementRepository creates a new MongoEngagementRepository
func NewMongoEngagementRepository(db *mongo.Database) *MongoEngagementRepository {
	return &MongoEngagementRepository{collection: db.Collection("posts")}
}

// ToggleLike adds the user to the post's like set if absent, removes them
// if present, and returns the resulting like count
func (r *MongoEngagementRepository) ToggleLike(ctx context.Context, postID string, userID uint) (int, error) {
	post, err := r.toggleMember(ctx, postID, "likes", userID)
	if err != nil {
		return 0, err
	}
	return len(post.Likes), nil
}

// ToggleBookmark behaves like ToggleLike against the independent bookmark set
func (r *MongoEngagementRepository) ToggleBookmark(ctx context.Context, postID string, userID uint) (int, error) {
	post, err := r.toggleMember(ctx, postID, "bookmarks", userID)
	if err != nil {
		return 0, err
	}
	return len(post.Bookmarks), nil
}

// toggleMember flips the user's membership in one of the post's ID-set
// fields within a single FindOneAndUpdate
func (r *MongoEngagementRepository) toggleMember(ctx context.Context, postID, field string, userID uint) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrInvalidID
	}

	current := bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: field, Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$in", Value: bson.A{userID, current}}},
			bson.D{{Key: "$setDifference", Value: bson.A{current, bson.A{userID}}}},
			bson.D{{Key: "$concatArrays", Value: bson.A{current, bson.A{userID}}}},
		}}}}}}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "updated_at", Value: "$$NOW"}}}},
	}

	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// React applies the one-reaction-per-user rule in a single atomic update:
// resubmitting the same emoji removes the entry, a different emoji replaces
// it in place, and a user without an entry gets one appended. Returns the
// emoji tally after the mutation.
func (r *MongoEngagementRepository) React(ctx context.Context, postID string, userID uint, emoji string) (map[string]int, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrInvalidID
	}

	// The pipeline stages below are expression context, where a leading "$"
	// in a string is a field path. $literal keeps user input out of that
	// namespace so an emoji like "$title" is stored and compared verbatim.
	emojiLit := bson.D{{Key: "$literal", Value: emoji}}
	entry := bson.D{{Key: "user", Value: userID}, {Key: "emoji", Value: emojiLit}}
	current := bson.D{{Key: "$ifNull", Value: bson.A{"$reactions", bson.A{}}}}
	sameEntry := bson.D{{Key: "$anyElementTrue", Value: bson.A{bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: current},
		{Key: "in", Value: bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$$this.user", userID}}},
			bson.D{{Key: "$eq", Value: bson.A{"$$this.emoji", emojiLit}}},
		}}}},
	}}}}}}
	anyEntry := bson.D{{Key: "$in", Value: bson.A{userID, bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: current},
		{Key: "in", Value: "$$this.user"},
	}}}}}}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{{Key: "reactions", Value: bson.D{{Key: "$cond", Value: bson.A{
			sameEntry,
			// Same emoji again: drop the user's entry
			bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: current},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this.user", userID}}}},
			}}},
			bson.D{{Key: "$cond", Value: bson.A{
				anyEntry,
				// Different emoji: replace the entry in place
				bson.D{{Key: "$map", Value: bson.D{
					{Key: "input", Value: current},
					{Key: "in", Value: bson.D{{Key: "$cond", Value: bson.A{
						bson.D{{Key: "$eq", Value: bson.A{"$$this.user", userID}}},
						entry,
						"$$this",
					}}}},
				}}},
				// No entry yet: append
				bson.D{{Key: "$concatArrays", Value: bson.A{current, bson.A{entry}}}},
			}}},
		}}}}}}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "updated_at", Value: "$$NOW"}}}},
	}

	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return models.TallyReactions(post.Reactions), nil
}

// GetReactions returns the current emoji tally without mutating the post
func (r *MongoEngagementRepository) GetReactions(ctx context.Context, postID string) (map[string]int, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrInvalidID
	}

	var post models.Post
	err = r.collection.FindOne(ctx,
		bson.M{"_id": objID},
		options.FindOne().SetProjection(bson.M{"reactions": 1}),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return models.TallyReactions(post.Reactions), nil
}
