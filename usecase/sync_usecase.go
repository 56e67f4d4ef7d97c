package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lently/domain/dto"
	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/events"
	"lently/infrastructure/logger"
	"lently/infrastructure/utils"
)

// Progress checkpoints of a sync run. Between classifyStart and statsProgress
// the value advances proportionally to classified comments.
const (
	fetchStartProgress   = 10
	classifyStart        = 50
	classifySpan         = 45
	statsProgress        = 95
	doneProgress         = 100
	progressPersistEvery = 50
)

// IProgressBroadcaster pushes job snapshots to live subscribers.
type IProgressBroadcaster interface {
	BroadcastProgress(job *model.SyncJob)
}

// ISyncUsecase orchestrates comment ingestion and analysis runs.
type ISyncUsecase interface {
	// StartSync validates the URL, gates on the monthly video quota, creates
	// the video and a queued job, and launches processing in the background.
	StartSync(ctx context.Context, userID, youtubeURL string) (*dto.AnalyzeVideoResponse, error)
	// Reanalyze re-runs ingestion and classification for an already synced
	// video, gated on the re-sync quota.
	Reanalyze(ctx context.Context, userID, videoID string) (*dto.AnalyzeVideoResponse, error)
	// ProcessSyncJob runs one job to a terminal state. Exposed for the
	// scheduler; StartSync and Reanalyze call it on their own goroutine.
	ProcessSyncJob(ctx context.Context, job *model.SyncJob, batchSize int) error
	GetJobStatus(ctx context.Context, userID, jobID string) (*dto.SyncJobStatusResponse, error)
	ListVideos(ctx context.Context, userID string) (*dto.VideoListResponse, error)
	GetVideo(ctx context.Context, userID, videoID string) (*model.Video, error)
	ListComments(ctx context.Context, userID, videoID, category string, limit int) (*dto.CommentListResponse, error)
}

type SyncUsecase struct {
	youtubeClient     repository.IYouTube
	syncJobRepository repository.ISyncJob
	videoRepository   repository.IVideo
	commentRepository repository.IComment
	eventPublisher    repository.IEventPublisher
	analysisUsecase   IAnalysisUsecase
	usageUsecase      IUsageUsecase
	alertUsecase      IAlertUsecase
	replyUsecase      IReplyUsecase
	progressHub       IProgressBroadcaster
	batchSize         int
	reanalyzeBatch    int
}

func NewSyncUsecase(
	youtubeClient repository.IYouTube,
	syncJobRepository repository.ISyncJob,
	videoRepository repository.IVideo,
	commentRepository repository.IComment,
	eventPublisher repository.IEventPublisher,
	analysisUsecase IAnalysisUsecase,
	usageUsecase IUsageUsecase,
	alertUsecase IAlertUsecase,
	replyUsecase IReplyUsecase,
	progressHub IProgressBroadcaster,
	batchSize int,
	reanalyzeBatch int,
) ISyncUsecase {
	return &SyncUsecase{
		youtubeClient:     youtubeClient,
		syncJobRepository: syncJobRepository,
		videoRepository:   videoRepository,
		commentRepository: commentRepository,
		eventPublisher:    eventPublisher,
		analysisUsecase:   analysisUsecase,
		usageUsecase:      usageUsecase,
		alertUsecase:      alertUsecase,
		replyUsecase:      replyUsecase,
		progressHub:       progressHub,
		batchSize:         batchSize,
		reanalyzeBatch:    reanalyzeBatch,
	}
}

func (u *SyncUsecase) StartSync(ctx context.Context, userID, youtubeURL string) (*dto.AnalyzeVideoResponse, error) {
	videoID, err := u.youtubeClient.ExtractVideoID(youtubeURL)
	if err != nil {
		return nil, err
	}

	user, err := u.usageUsecase.CheckLimit(ctx, userID, CounterVideosAnalyzed)
	if err != nil {
		return nil, err
	}

	metadata, err := u.youtubeClient.GetVideoMetadata(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	if metadata == nil {
		return nil, fmt.Errorf("video %s: %w", videoID, model.ErrNotFound)
	}

	job, err := u.enqueue(ctx, userID, videoID, metadata)
	if err != nil {
		return nil, err
	}
	if err := u.usageUsecase.Increment(ctx, userID, CounterVideosAnalyzed, 1); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to increment video counter")
	}

	maxComments := model.LimitsForPlan(user.Plan).CommentsPerVideo
	go u.runDetached(job, u.batchSize, maxComments)

	return &dto.AnalyzeVideoResponse{JobID: job.JobID, VideoID: videoID}, nil
}

func (u *SyncUsecase) Reanalyze(ctx context.Context, userID, videoID string) (*dto.AnalyzeVideoResponse, error) {
	video, err := u.GetVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	user, err := u.usageUsecase.CheckLimit(ctx, userID, CounterReSyncsUsed)
	if err != nil {
		return nil, err
	}

	metadata, err := u.youtubeClient.GetVideoMetadata(ctx, video.YouTubeVideoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	if metadata == nil {
		return nil, fmt.Errorf("video %s: %w", videoID, model.ErrNotFound)
	}

	job, err := u.enqueue(ctx, userID, videoID, metadata)
	if err != nil {
		return nil, err
	}
	if err := u.usageUsecase.Increment(ctx, userID, CounterReSyncsUsed, 1); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to increment re-sync counter")
	}

	maxComments := model.LimitsForPlan(user.Plan).CommentsPerVideo
	go u.runDetached(job, u.reanalyzeBatch, maxComments)

	return &dto.AnalyzeVideoResponse{JobID: job.JobID, VideoID: videoID}, nil
}

// enqueue upserts the video document and creates the queued job.
func (u *SyncUsecase) enqueue(ctx context.Context, userID, videoID string, metadata *model.VideoMetadata) (*model.SyncJob, error) {
	now := utils.GetCurrentTime()
	video := &model.Video{
		YouTubeVideoID: videoID,
		UserID:         userID,
		Title:          metadata.Title,
		Description:    metadata.Description,
		ThumbnailURL:   metadata.ThumbnailURL,
		ChannelName:    metadata.ChannelName,
		ViewCount:      metadata.ViewCount,
		LikeCount:      metadata.LikeCount,
		CommentCount:   metadata.CommentCount,
		PublishedAt:    metadata.PublishedAt,
		Duration:       metadata.Duration,
		SyncStatus:     model.SyncStatusQueued,
		SyncProgress:   0,
		CreatedAt:      now,
	}
	if err := u.videoRepository.Upsert(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to upsert video: %w", err)
	}

	job := &model.SyncJob{
		JobID:     uuid.NewString(),
		UserID:    userID,
		VideoID:   videoID,
		Status:    model.SyncStatusQueued,
		CreatedAt: now,
	}
	if err := u.syncJobRepository.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create sync job: %w", err)
	}
	return job, nil
}

// runDetached processes the job on a fresh context so it survives the HTTP
// request that started it.
func (u *SyncUsecase) runDetached(job *model.SyncJob, batchSize, maxComments int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	if err := u.processSyncJob(ctx, job, batchSize, maxComments); err != nil {
		logger.GetLogger().
			WithField("jobId", job.JobID).
			WithField("videoId", job.VideoID).
			WithField("error", err).
			Error("Sync job failed")
	}
}

func (u *SyncUsecase) ProcessSyncJob(ctx context.Context, job *model.SyncJob, batchSize int) error {
	user, err := u.usageUsecase.CheckLimit(ctx, job.UserID, CounterVideosAnalyzed)
	if err != nil {
		return err
	}
	return u.processSyncJob(ctx, job, batchSize, model.LimitsForPlan(user.Plan).CommentsPerVideo)
}

func (u *SyncUsecase) processSyncJob(ctx context.Context, job *model.SyncJob, batchSize, maxComments int) error {
	if err := u.runPipeline(ctx, job, batchSize, maxComments); err != nil {
		u.markFailed(job, err)
		return err
	}

	// Post-sync tail. Best effort, never fails the job. Cached answers are
	// kept across re-syncs; the explicit clear endpoint is the only wipe.
	u.alertUsecase.RunAlertChecks(ctx, job.UserID, job.VideoID)
	u.replyUsecase.GenerateTopReplies(ctx, job.UserID, job.VideoID)
	u.publishEvent(ctx, events.TopicSyncCompleted, job)
	return nil
}

func (u *SyncUsecase) runPipeline(ctx context.Context, job *model.SyncJob, batchSize, maxComments int) error {
	u.advance(ctx, job, model.SyncStatusProcessing, fetchStartProgress)

	comments, err := u.youtubeClient.GetAllComments(ctx, job.VideoID, maxComments)
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}

	job.TotalComments = len(comments)
	u.advance(ctx, job, model.SyncStatusProcessing, classifyStart)

	for i := range comments {
		comments[i].UserID = job.UserID
		// A single comment write failing must not take down the whole run.
		if err := u.commentRepository.UpsertRaw(ctx, &comments[i]); err != nil {
			logger.GetLogger().
				WithField("commentId", comments[i].YouTubeCommentID).
				WithField("error", err).
				Warn("Failed to store comment")
		}
	}

	stats := model.VideoStats{
		TotalComments:  len(comments),
		CategoryCounts: make(map[string]int),
	}
	sentimentSum := 0.0
	lastPersisted := 0

	for start := 0; start < len(comments); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + batchSize
		if end > len(comments) {
			end = len(comments)
		}
		batch := comments[start:end]

		labels := u.analysisUsecase.ClassifyComments(ctx, batch)
		for _, label := range labels {
			if err := u.commentRepository.PatchAnalysis(ctx, label.CommentID, label); err != nil {
				logger.GetLogger().
					WithField("commentId", label.CommentID).
					WithField("error", err).
					Warn("Failed to store comment analysis")
			}
			stats.CategoryCounts[label.Category]++
			sentimentSum += label.SentimentScore
		}

		job.ProcessedComments = end
		job.Progress = classifyStart + classifySpan*end/len(comments)
		if end-lastPersisted >= progressPersistEvery || end == len(comments) {
			u.advance(ctx, job, model.SyncStatusProcessing, job.Progress)
			lastPersisted = end
		} else {
			u.progressHub.BroadcastProgress(job)
		}
	}

	if len(comments) > 0 {
		stats.AvgSentiment = sentimentSum / float64(len(comments))
	}
	u.advance(ctx, job, model.SyncStatusProcessing, statsProgress)

	if err := u.videoRepository.FinishSync(ctx, job.VideoID, stats); err != nil {
		return fmt.Errorf("failed to finalize video: %w", err)
	}
	u.complete(ctx, job)

	if len(comments) > 0 {
		if err := u.usageUsecase.Increment(ctx, job.UserID, CounterCommentsAnalyzed, len(comments)); err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed to increment comment counter")
		}
	}
	return nil
}

// advance persists a non-terminal progress step on the job and the video and
// notifies live subscribers.
func (u *SyncUsecase) advance(ctx context.Context, job *model.SyncJob, status string, progress int) {
	job.Status = status
	job.Progress = progress
	update := model.SyncJobUpdate{
		Status:            &job.Status,
		Progress:          &job.Progress,
		TotalComments:     &job.TotalComments,
		ProcessedComments: &job.ProcessedComments,
	}
	if err := u.syncJobRepository.UpdateProgress(ctx, job.JobID, update); err != nil {
		logger.GetLogger().WithField("jobId", job.JobID).WithField("error", err).Error("Failed to persist job progress")
	}
	if err := u.videoRepository.UpdateSyncState(ctx, job.VideoID, status, progress); err != nil {
		logger.GetLogger().WithField("videoId", job.VideoID).WithField("error", err).Error("Failed to persist video sync state")
	}
	u.progressHub.BroadcastProgress(job)
}

func (u *SyncUsecase) complete(ctx context.Context, job *model.SyncJob) {
	now := utils.GetCurrentTime()
	job.Status = model.SyncStatusCompleted
	job.Progress = doneProgress
	job.CompletedAt = &now
	update := model.SyncJobUpdate{
		Status:            &job.Status,
		Progress:          &job.Progress,
		TotalComments:     &job.TotalComments,
		ProcessedComments: &job.ProcessedComments,
		CompletedAt:       &now,
	}
	if err := u.syncJobRepository.UpdateProgress(ctx, job.JobID, update); err != nil {
		logger.GetLogger().WithField("jobId", job.JobID).WithField("error", err).Error("Failed to persist job completion")
	}
	u.progressHub.BroadcastProgress(job)
	logger.GetLogger().
		WithField("jobId", job.JobID).
		WithField("videoId", job.VideoID).
		WithField("comments", job.TotalComments).
		Info("Sync completed")
}

// markFailed records the failure on the job and video. It runs on a fresh
// context because the pipeline context may already be cancelled.
func (u *SyncUsecase) markFailed(job *model.SyncJob, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := utils.GetCurrentTime()
	job.Status = model.SyncStatusFailed
	job.Error = cause.Error()
	job.CompletedAt = &now
	update := model.SyncJobUpdate{
		Status:      &job.Status,
		Error:       &job.Error,
		CompletedAt: &now,
	}
	if err := u.syncJobRepository.UpdateProgress(ctx, job.JobID, update); err != nil {
		logger.GetLogger().WithField("jobId", job.JobID).WithField("error", err).Error("Failed to persist job failure")
	}
	if err := u.videoRepository.UpdateSyncState(ctx, job.VideoID, model.SyncStatusFailed, job.Progress); err != nil {
		logger.GetLogger().WithField("videoId", job.VideoID).WithField("error", err).Error("Failed to persist video failure")
	}
	u.progressHub.BroadcastProgress(job)
	u.publishEvent(ctx, events.TopicSyncFailed, job)
}

func (u *SyncUsecase) GetJobStatus(ctx context.Context, userID, jobID string) (*dto.SyncJobStatusResponse, error) {
	job, err := u.syncJobRepository.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, model.ErrForbidden
	}
	return &dto.SyncJobStatusResponse{
		JobID:             job.JobID,
		VideoID:           job.VideoID,
		Status:            job.Status,
		Progress:          job.Progress,
		TotalComments:     job.TotalComments,
		ProcessedComments: job.ProcessedComments,
		Error:             job.Error,
	}, nil
}

func (u *SyncUsecase) ListVideos(ctx context.Context, userID string) (*dto.VideoListResponse, error) {
	videos, err := u.videoRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return &dto.VideoListResponse{Videos: videos, Total: len(videos)}, nil
}

func (u *SyncUsecase) GetVideo(ctx context.Context, userID, videoID string) (*model.Video, error) {
	video, err := u.videoRepository.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.UserID != userID {
		return nil, model.ErrForbidden
	}
	return video, nil
}

func (u *SyncUsecase) ListComments(ctx context.Context, userID, videoID, category string, limit int) (*dto.CommentListResponse, error) {
	if _, err := u.GetVideo(ctx, userID, videoID); err != nil {
		return nil, err
	}

	var (
		comments []model.Comment
		err      error
	)
	if category != "" {
		comments, err = u.commentRepository.ListByVideoCategory(ctx, videoID, category)
	} else {
		comments, err = u.commentRepository.ListByVideo(ctx, videoID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return &dto.CommentListResponse{Comments: comments, Total: len(comments)}, nil
}

func (u *SyncUsecase) publishEvent(ctx context.Context, topic string, job *model.SyncJob) {
	payload, err := json.Marshal(map[string]interface{}{
		"jobId":         job.JobID,
		"videoId":       job.VideoID,
		"userId":        job.UserID,
		"status":        job.Status,
		"totalComments": job.TotalComments,
	})
	if err != nil {
		return
	}
	if err := u.eventPublisher.Publish(ctx, topic, payload); err != nil {
		logger.GetLogger().WithField("topic", topic).WithField("error", err).Warn("Failed to publish sync event")
	}
}
