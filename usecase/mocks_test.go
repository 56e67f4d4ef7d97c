package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"lently/domain/model"
)

// Mock implementations shared by the usecase tests.

type MockYouTube struct {
	mock.Mock
}

func (m *MockYouTube) ExtractVideoID(url string) (string, error) {
	args := m.Called(url)
	return args.String(0), args.Error(1)
}

func (m *MockYouTube) GetVideoMetadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoMetadata), args.Error(1)
}

func (m *MockYouTube) GetAllComments(ctx context.Context, videoID string, maxComments int) ([]model.Comment, error) {
	args := m.Called(ctx, videoID, maxComments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockYouTube) PostCommentReply(ctx context.Context, userID, parentCommentID, text string) (string, error) {
	args := m.Called(ctx, userID, parentCommentID, text)
	return args.String(0), args.Error(1)
}

type MockGenerativeModel struct {
	mock.Mock
}

func (m *MockGenerativeModel) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, maxTokens, temperature)
	return args.String(0), args.Error(1)
}

type MockSyncJobRepository struct {
	mock.Mock
}

func (m *MockSyncJobRepository) Create(ctx context.Context, job *model.SyncJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockSyncJobRepository) Get(ctx context.Context, jobID string) (*model.SyncJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncJob), args.Error(1)
}

func (m *MockSyncJobRepository) UpdateProgress(ctx context.Context, jobID string, update model.SyncJobUpdate) error {
	args := m.Called(ctx, jobID, update)
	return args.Error(0)
}

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Upsert(ctx context.Context, video *model.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) Get(ctx context.Context, videoID string) (*model.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) ListByUser(ctx context.Context, userID string) ([]model.Video, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) ListAutoSyncCandidates(ctx context.Context, syncedBefore time.Time) ([]model.Video, error) {
	args := m.Called(ctx, syncedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) UpdateSyncState(ctx context.Context, videoID string, status string, progress int) error {
	args := m.Called(ctx, videoID, status, progress)
	return args.Error(0)
}

func (m *MockVideoRepository) FinishSync(ctx context.Context, videoID string, stats model.VideoStats) error {
	args := m.Called(ctx, videoID, stats)
	return args.Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) UpsertRaw(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) PatchAnalysis(ctx context.Context, commentID string, analysis model.CommentAnalysis) error {
	args := m.Called(ctx, commentID, analysis)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByVideo(ctx context.Context, videoID string, limit int) ([]model.Comment, error) {
	args := m.Called(ctx, videoID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByVideoCategory(ctx context.Context, videoID, category string) ([]model.Comment, error) {
	args := m.Called(ctx, videoID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByVideoSince(ctx context.Context, videoID string, since time.Time) ([]model.Comment, error) {
	args := m.Called(ctx, videoID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByVideoBetween(ctx context.Context, videoID string, from, to time.Time) ([]model.Comment, error) {
	args := m.Called(ctx, videoID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *model.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) ExistsRecent(ctx context.Context, userID, videoID, alertType string, since time.Time) (bool, error) {
	args := m.Called(ctx, userID, videoID, alertType, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Alert, error) {
	args := m.Called(ctx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alert), args.Error(1)
}

func (m *MockAlertRepository) MarkRead(ctx context.Context, userID, alertID string, at time.Time) error {
	args := m.Called(ctx, userID, alertID, at)
	return args.Error(0)
}

type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) SaveTurn(ctx context.Context, turn *model.ConversationTurn) error {
	args := m.Called(ctx, turn)
	return args.Error(0)
}

func (m *MockConversationRepository) RecentTurns(ctx context.Context, conversationID string, n int) ([]model.ConversationTurn, error) {
	args := m.Called(ctx, conversationID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ConversationTurn), args.Error(1)
}

type MockReplyRepository struct {
	mock.Mock
}

func (m *MockReplyRepository) Create(ctx context.Context, reply *model.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockReplyRepository) Get(ctx context.Context, replyID string) (*model.Reply, error) {
	args := m.Called(ctx, replyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reply), args.Error(1)
}

func (m *MockReplyRepository) ListByUser(ctx context.Context, userID string) ([]model.Reply, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reply), args.Error(1)
}

func (m *MockReplyRepository) FindByNormalizedQuestion(ctx context.Context, userID, normalized string) (*model.Reply, error) {
	args := m.Called(ctx, userID, normalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reply), args.Error(1)
}

func (m *MockReplyRepository) Update(ctx context.Context, replyID string, fields map[string]interface{}) error {
	args := m.Called(ctx, replyID, fields)
	return args.Error(0)
}

func (m *MockReplyRepository) IncrementUseCount(ctx context.Context, replyID string, at time.Time) error {
	args := m.Called(ctx, replyID, at)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	args := m.Called(ctx, userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) IncrementUsage(ctx context.Context, userID, counter string, by int) error {
	args := m.Called(ctx, userID, counter, by)
	return args.Error(0)
}

func (m *MockUserRepository) ResetMonthlyUsage(ctx context.Context, userID string, resetDate time.Time) error {
	args := m.Called(ctx, userID, resetDate)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePlan(ctx context.Context, userID, plan string, expiry *time.Time) error {
	args := m.Called(ctx, userID, plan, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) ListByAutoSyncPlans(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

type MockAnswerCache struct {
	mock.Mock
}

func (m *MockAnswerCache) Get(ctx context.Context, videoID, question string) (*model.CachedAnswer, error) {
	args := m.Called(ctx, videoID, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CachedAnswer), args.Error(1)
}

func (m *MockAnswerCache) Put(ctx context.Context, videoID, question string, answer model.CachedAnswer) error {
	args := m.Called(ctx, videoID, question, answer)
	return args.Error(0)
}

func (m *MockAnswerCache) ClearVideo(ctx context.Context, videoID string) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

// fakeProgressHub records broadcast snapshots without a real SSE hub.
type fakeProgressHub struct {
	progress []int
}

func (f *fakeProgressHub) BroadcastProgress(job *model.SyncJob) {
	f.progress = append(f.progress, job.Progress)
}
