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

// AlertRepository stores alerts in the alerts collection.
type AlertRepository struct {
	col *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) repository.IAlert {
	return &AlertRepository{col: db.Collection("alerts")}
}

func (r *AlertRepository) Create(ctx context.Context, alert *model.Alert) error {
	_, err := r.col.InsertOne(ctx, alert)
	return err
}

func (r *AlertRepository) ExistsRecent(ctx context.Context, userID, videoID, alertType string, since time.Time) (bool, error) {
	filter := bson.M{
		"userId":    userID,
		"videoId":   videoID,
		"type":      alertType,
		"createdAt": bson.M{"$gte": since},
	}
	count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Alert, error) {
	filter := bson.M{"userId": userID}
	if unreadOnly {
		filter["isRead"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var alerts []model.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *AlertRepository) MarkRead(ctx context.Context, userID, alertID string, at time.Time) error {
	filter := bson.M{"_id": alertID, "userId": userID}
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": at}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
