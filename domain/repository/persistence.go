package repository

import (
	"context"
	"time"

	"lently/domain/model"
)

// ISyncJob stores sync job documents. Jobs are owned by the orchestrator;
// clients only poll them.
type ISyncJob interface {
	Create(ctx context.Context, job *model.SyncJob) error
	Get(ctx context.Context, jobID string) (*model.SyncJob, error)
	// UpdateProgress patches status/progress/processed counters. A nil field
	// map entry is skipped; completedAt is set when the job reaches a
	// terminal state.
	UpdateProgress(ctx context.Context, jobID string, update model.SyncJobUpdate) error
}

// IVideo stores video documents keyed by YouTube video id.
type IVideo interface {
	// Upsert creates or refreshes the video document, preserving ownership
	// and createdAt on re-sync.
	Upsert(ctx context.Context, video *model.Video) error
	Get(ctx context.Context, videoID string) (*model.Video, error)
	ListByUser(ctx context.Context, userID string) ([]model.Video, error)
	ListAutoSyncCandidates(ctx context.Context, syncedBefore time.Time) ([]model.Video, error)
	UpdateSyncState(ctx context.Context, videoID string, status string, progress int) error
	// FinishSync writes aggregate stats, marks the video completed and stamps
	// lastSyncedAt.
	FinishSync(ctx context.Context, videoID string, stats model.VideoStats) error
}

// IComment stores comment documents keyed by YouTube comment id.
type IComment interface {
	// UpsertRaw writes the unanalyzed comment, keeping any analysis fields a
	// previous sync already attached (two-phase write, phase one).
	UpsertRaw(ctx context.Context, comment *model.Comment) error
	// PatchAnalysis attaches classifier labels to an existing comment
	// (two-phase write, phase two). Missing documents are merge-inserted so a
	// patch may race with a concurrent re-sync insert.
	PatchAnalysis(ctx context.Context, commentID string, analysis model.CommentAnalysis) error
	ListByVideo(ctx context.Context, videoID string, limit int) ([]model.Comment, error)
	ListByVideoCategory(ctx context.Context, videoID, category string) ([]model.Comment, error)
	ListByVideoSince(ctx context.Context, videoID string, since time.Time) ([]model.Comment, error)
	ListByVideoBetween(ctx context.Context, videoID string, from, to time.Time) ([]model.Comment, error)
}

// IAlert stores alert documents.
type IAlert interface {
	Create(ctx context.Context, alert *model.Alert) error
	// ExistsRecent reports whether a same-type alert for (user, video) was
	// created after the given time. Backs the 24h dedup gate.
	ExistsRecent(ctx context.Context, userID, videoID, alertType string, since time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Alert, error)
	MarkRead(ctx context.Context, userID, alertID string, at time.Time) error
}

// IConversation stores chat turns for the sliding-window context.
type IConversation interface {
	SaveTurn(ctx context.Context, turn *model.ConversationTurn) error
	// RecentTurns returns the last n turns in chronological order.
	RecentTurns(ctx context.Context, conversationID string, n int) ([]model.ConversationTurn, error)
}

// IReply stores AI reply documents.
type IReply interface {
	Create(ctx context.Context, reply *model.Reply) error
	Get(ctx context.Context, replyID string) (*model.Reply, error)
	ListByUser(ctx context.Context, userID string) ([]model.Reply, error)
	// FindByNormalizedQuestion matches an existing reply whose question
	// normalizes to the same text.
	FindByNormalizedQuestion(ctx context.Context, userID, normalized string) (*model.Reply, error)
	Update(ctx context.Context, replyID string, fields map[string]interface{}) error
	IncrementUseCount(ctx context.Context, replyID string, at time.Time) error
}

// IUser stores account documents with the embedded usage ledger.
type IUser interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByUserName(ctx context.Context, userName string) (*model.User, error)
	IncrementUsage(ctx context.Context, userID, counter string, by int) error
	ResetMonthlyUsage(ctx context.Context, userID string, resetDate time.Time) error
	UpdatePlan(ctx context.Context, userID, plan string, expiry *time.Time) error
	ListByAutoSyncPlans(ctx context.Context) ([]model.User, error)
}

// IOAuthToken stores per-user YouTube OAuth credentials for the reply poster.
type IOAuthToken interface {
	Get(ctx context.Context, userID string) (*model.OAuthToken, error)
	Save(ctx context.Context, token *model.OAuthToken) error
}

// IAnswerCache is the per-video answer cache. Both operations are fail-open:
// an internal error means "no cached answer" / dropped write, never a failure
// surfaced to the chat path.
type IAnswerCache interface {
	Get(ctx context.Context, videoID, question string) (*model.CachedAnswer, error)
	Put(ctx context.Context, videoID, question string, answer model.CachedAnswer) error
	ClearVideo(ctx context.Context, videoID string) error
}

// IEventPublisher publishes best-effort lifecycle events (sync completed or
// failed). Implementations must tolerate being backed by a nil client.
type IEventPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
