package persistence

import (
	"context"
	"errors"
	"time"

	"lently/domain/model"
	"lently/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// VideoRepository stores videos keyed by the YouTube video id.
type VideoRepository struct {
	col *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) repository.IVideo {
	return &VideoRepository{col: db.Collection("videos")}
}

// Upsert refreshes the mirrored metadata and sync state while preserving
// ownership and createdAt across re-syncs.
func (r *VideoRepository) Upsert(ctx context.Context, video *model.Video) error {
	filter := bson.M{"_id": video.YouTubeVideoID}
	update := bson.M{
		"$set": bson.M{
			"title":        video.Title,
			"description":  video.Description,
			"thumbnailUrl": video.ThumbnailURL,
			"channelName":  video.ChannelName,
			"viewCount":    video.ViewCount,
			"likeCount":    video.LikeCount,
			"commentCount": video.CommentCount,
			"publishedAt":  video.PublishedAt,
			"duration":     video.Duration,
			"syncStatus":   video.SyncStatus,
			"syncProgress": video.SyncProgress,
		},
		"$setOnInsert": bson.M{
			"userId":    video.UserID,
			"createdAt": video.CreatedAt,
			"stats":     video.Stats,
		},
	}
	opts := options.UpdateOne().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *VideoRepository) Get(ctx context.Context, videoID string) (*model.Video, error) {
	var video model.Video
	err := r.col.FindOne(ctx, bson.M{"_id": videoID}).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) ListByUser(ctx context.Context, userID string) ([]model.Video, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var videos []model.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *VideoRepository) ListAutoSyncCandidates(ctx context.Context, syncedBefore time.Time) ([]model.Video, error) {
	filter := bson.M{
		"syncStatus":   model.SyncStatusCompleted,
		"lastSyncedAt": bson.M{"$lt": syncedBefore},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var videos []model.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *VideoRepository) UpdateSyncState(ctx context.Context, videoID string, status string, progress int) error {
	update := bson.M{"$set": bson.M{"syncStatus": status, "syncProgress": progress}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": videoID}, update)
	return err
}

func (r *VideoRepository) FinishSync(ctx context.Context, videoID string, stats model.VideoStats) error {
	update := bson.M{"$set": bson.M{
		"syncStatus":   model.SyncStatusCompleted,
		"syncProgress": 100,
		"stats":        stats,
		"lastSyncedAt": time.Now().UTC(),
	}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": videoID}, update)
	return err
}
