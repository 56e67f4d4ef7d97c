package model

import "time"

// Sync job lifecycle statuses. Transitions only move forward:
// queued -> processing -> completed|failed.
const (
	SyncStatusQueued     = "queued"
	SyncStatusProcessing = "processing"
	SyncStatusCompleted  = "completed"
	SyncStatusFailed     = "failed"
)

// SyncJob represents one ingestion run for a single video.
type SyncJob struct {
	JobID             string     `bson:"jobId" json:"jobId"`
	UserID            string     `bson:"userId" json:"userId"`
	VideoID           string     `bson:"videoId" json:"videoId"`
	Status            string     `bson:"status" json:"status"`
	Progress          int        `bson:"progress" json:"progress"`
	TotalComments     int        `bson:"totalComments" json:"totalComments"`
	ProcessedComments int        `bson:"processedComments" json:"processedComments"`
	Error             string     `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt         time.Time  `bson:"createdAt" json:"createdAt"`
	CompletedAt       *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// IsTerminal reports whether the job has reached a final state.
func (j *SyncJob) IsTerminal() bool {
	return j.Status == SyncStatusCompleted || j.Status == SyncStatusFailed
}

// SyncJobUpdate is a partial job update. Nil pointer fields are left untouched.
type SyncJobUpdate struct {
	Status            *string
	Progress          *int
	TotalComments     *int
	ProcessedComments *int
	Error             *string
	CompletedAt       *time.Time
}

