package persistence

import (
	"context"

	"lently/domain/model"
	"lently/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ConversationRepository stores chat turns in the conversation_turns collection.
type ConversationRepository struct {
	col *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) repository.IConversation {
	return &ConversationRepository{col: db.Collection("conversation_turns")}
}

func (r *ConversationRepository) SaveTurn(ctx context.Context, turn *model.ConversationTurn) error {
	_, err := r.col.InsertOne(ctx, turn)
	return err
}

// RecentTurns fetches the newest n turns and reverses them into
// chronological order for prompt building.
func (r *ConversationRepository) RecentTurns(ctx context.Context, conversationID string, n int) ([]model.ConversationTurn, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(n))
	cursor, err := r.col.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var turns []model.ConversationTurn
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, err
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
