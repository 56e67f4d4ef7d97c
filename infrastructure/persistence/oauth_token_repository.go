package persistence

import (
	"context"
	"errors"

	"lently/domain/model"
	"lently/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// OAuthTokenRepository stores YouTube OAuth tokens keyed by user id.
type OAuthTokenRepository struct {
	col *mongo.Collection
}

func NewOAuthTokenRepository(db *mongo.Database) repository.IOAuthToken {
	return &OAuthTokenRepository{col: db.Collection("youtube_tokens")}
}

func (r *OAuthTokenRepository) Get(ctx context.Context, userID string) (*model.OAuthToken, error) {
	var token model.OAuthToken
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *OAuthTokenRepository) Save(ctx context.Context, token *model.OAuthToken) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": token.UserID}, token, opts)
	return err
}
