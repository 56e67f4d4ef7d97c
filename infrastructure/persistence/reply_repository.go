package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"lently/domain/model"
	"lently/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ReplyRepository stores AI replies in the ai_replies collection.
type ReplyRepository struct {
	col *mongo.Collection
}

func NewReplyRepository(db *mongo.Database) repository.IReply {
	return &ReplyRepository{col: db.Collection("ai_replies")}
}

func (r *ReplyRepository) Create(ctx context.Context, reply *model.Reply) error {
	_, err := r.col.InsertOne(ctx, reply)
	return err
}

func (r *ReplyRepository) Get(ctx context.Context, replyID string) (*model.Reply, error) {
	var reply model.Reply
	err := r.col.FindOne(ctx, bson.M{"_id": replyID}).Decode(&reply)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &reply, nil
}

func (r *ReplyRepository) ListByUser(ctx context.Context, userID string) ([]model.Reply, error) {
	opts := options.Find().SetSort(bson.D{{Key: "useCount", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var replies []model.Reply
	if err := cursor.All(ctx, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// FindByNormalizedQuestion scans the user's replies comparing normalized
// question text. The collection is small per user so a client-side scan is
// acceptable here.
func (r *ReplyRepository) FindByNormalizedQuestion(ctx context.Context, userID, normalized string) (*model.Reply, error) {
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var reply model.Reply
		if err := cursor.Decode(&reply); err != nil {
			return nil, err
		}
		if strings.TrimSpace(strings.ToLower(reply.Question)) == normalized {
			return &reply, nil
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return nil, model.ErrNotFound
}

func (r *ReplyRepository) Update(ctx context.Context, replyID string, fields map[string]interface{}) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": replyID}, bson.M{"$set": set})
	return err
}

func (r *ReplyRepository) IncrementUseCount(ctx context.Context, replyID string, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{"useCount": 1},
		"$set": bson.M{"lastUsedAt": at},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": replyID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
