package persistence

import (
	"context"
	"time"

	"lently/domain/model"
	"lently/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CommentRepository stores comments keyed by the YouTube comment id.
type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) repository.IComment {
	return &CommentRepository{col: db.Collection("comments")}
}

// UpsertRaw writes the raw comment fields. Analysis fields attached by a
// previous sync are left in place, so a re-sync does not wipe labels before
// the classifier has run again.
func (r *CommentRepository) UpsertRaw(ctx context.Context, comment *model.Comment) error {
	filter := bson.M{"_id": comment.YouTubeCommentID}
	update := bson.M{
		"$set": bson.M{
			"videoId":         comment.VideoID,
			"userId":          comment.UserID,
			"author":          comment.Author,
			"authorChannelId": comment.AuthorChannelID,
			"text":            comment.Text,
			"likeCount":       comment.LikeCount,
			"replyCount":      comment.ReplyCount,
			"publishedAt":     comment.PublishedAt,
		},
		"$setOnInsert": bson.M{"analyzed": false},
	}
	opts := options.UpdateOne().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, filter, update, opts)
	return err
}

// PatchAnalysis merge-upserts the labels so a patch landing after a concurrent
// re-sync deleted-and-reinserted the document still sticks.
func (r *CommentRepository) PatchAnalysis(ctx context.Context, commentID string, analysis model.CommentAnalysis) error {
	update := bson.M{"$set": bson.M{
		"analyzed":          true,
		"category":          analysis.Category,
		"sentimentScore":    analysis.SentimentScore,
		"sentimentLabel":    analysis.SentimentLabel,
		"toxicityScore":     analysis.ToxicityScore,
		"extractedQuestion": analysis.ExtractedQuestion,
	}}
	opts := options.UpdateOne().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": commentID}, update, opts)
	return err
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID string, limit int) ([]model.Comment, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"videoId": videoID}, opts)
}

func (r *CommentRepository) ListByVideoCategory(ctx context.Context, videoID, category string) ([]model.Comment, error) {
	return r.find(ctx, bson.M{"videoId": videoID, "category": category}, options.Find())
}

func (r *CommentRepository) ListByVideoSince(ctx context.Context, videoID string, since time.Time) ([]model.Comment, error) {
	filter := bson.M{
		"videoId":     videoID,
		"publishedAt": bson.M{"$gte": since.UTC().Format(time.RFC3339)},
	}
	return r.find(ctx, filter, options.Find())
}

func (r *CommentRepository) ListByVideoBetween(ctx context.Context, videoID string, from, to time.Time) ([]model.Comment, error) {
	filter := bson.M{
		"videoId": videoID,
		"publishedAt": bson.M{
			"$gte": from.UTC().Format(time.RFC3339),
			"$lt":  to.UTC().Format(time.RFC3339),
		},
	}
	return r.find(ctx, filter, options.Find())
}

func (r *CommentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]model.Comment, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []model.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
