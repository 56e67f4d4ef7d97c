package persistence

import (
	"context"
	"errors"

	"lently/domain/model"
	"lently/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// SyncJobRepository stores sync jobs in the sync_jobs collection.
type SyncJobRepository struct {
	col *mongo.Collection
}

func NewSyncJobRepository(db *mongo.Database) repository.ISyncJob {
	return &SyncJobRepository{col: db.Collection("sync_jobs")}
}

func (r *SyncJobRepository) Create(ctx context.Context, job *model.SyncJob) error {
	_, err := r.col.InsertOne(ctx, job)
	return err
}

func (r *SyncJobRepository) Get(ctx context.Context, jobID string) (*model.SyncJob, error) {
	var job model.SyncJob
	err := r.col.FindOne(ctx, bson.M{"jobId": jobID}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *SyncJobRepository) UpdateProgress(ctx context.Context, jobID string, update model.SyncJobUpdate) error {
	set := bson.M{}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Progress != nil {
		set["progress"] = *update.Progress
	}
	if update.TotalComments != nil {
		set["totalComments"] = *update.TotalComments
	}
	if update.ProcessedComments != nil {
		set["processedComments"] = *update.ProcessedComments
	}
	if update.Error != nil {
		set["error"] = *update.Error
	}
	if update.CompletedAt != nil {
		set["completedAt"] = *update.CompletedAt
	}
	if len(set) == 0 {
		return nil
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"jobId": jobID}, bson.M{"$set": set})
	return err
}
