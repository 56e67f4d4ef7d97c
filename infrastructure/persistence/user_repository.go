package persistence

import (
	"context"
	"errors"
	"time"

	"lently/domain/model"
	"lently/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UserRepository stores accounts with their embedded usage ledger.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.IUser {
	return &UserRepository{col: db.Collection("users")}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *UserRepository) Get(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	var user model.User
	err := r.col.FindOne(ctx, bson.M{"userName": userName}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// IncrementUsage bumps one monthly counter atomically.
func (r *UserRepository) IncrementUsage(ctx context.Context, userID, counter string, by int) error {
	update := bson.M{"$inc": bson.M{"usage." + counter: by}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

func (r *UserRepository) ResetMonthlyUsage(ctx context.Context, userID string, resetDate time.Time) error {
	update := bson.M{"$set": bson.M{
		"usage.videosAnalyzed":   0,
		"usage.commentsAnalyzed": 0,
		"usage.aiQuestionsUsed":  0,
		"usage.reSyncsUsed":      0,
		"usage.resetDate":        resetDate,
	}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

func (r *UserRepository) UpdatePlan(ctx context.Context, userID, plan string, expiry *time.Time) error {
	set := bson.M{"plan": plan}
	if expiry != nil {
		set["planExpiry"] = *expiry
	} else {
		set["planExpiry"] = nil
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListByAutoSyncPlans(ctx context.Context) ([]model.User, error) {
	var autoSyncPlans []string
	for plan, limits := range model.AllPlanLimits {
		if limits.AutoSync {
			autoSyncPlans = append(autoSyncPlans, plan)
		}
	}
	cursor, err := r.col.Find(ctx, bson.M{"plan": bson.M{"$in": autoSyncPlans}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
