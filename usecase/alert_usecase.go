package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/events"
	"lently/infrastructure/logger"
	"lently/infrastructure/utils"
)

// Alert check tunables.
const (
	spikeCriticalRatio   = 10.0
	spikeHighRatio       = 5.0
	sentimentDropHighPct = 50.0
	sentimentDropMedPct  = 30.0
	sentimentMinComments = 5
	toxicThreshold       = 0.7
	toxicMinCount        = 3
	viralLikeFloor       = 500
	viralAvgMultiplier   = 10.0
	viralSampleSize      = 100
	alertDedupWindow     = 24 * time.Hour
	spikeBaselineWindow  = 7 * 24 * time.Hour
)

// IAlertUsecase runs the automatic checks after each sync and serves the
// alerts surface.
type IAlertUsecase interface {
	// RunAlertChecks evaluates all checks for one video. Check failures are
	// logged and swallowed; a sync never fails because of alerting.
	RunAlertChecks(ctx context.Context, userID, videoID string)
	// CheckVideo runs the checks on demand for a video the user owns.
	CheckVideo(ctx context.Context, userID, videoID string) error
	ListAlerts(ctx context.Context, userID string, unreadOnly bool) ([]model.Alert, error)
	MarkRead(ctx context.Context, userID, alertID string) error
}

type AlertUsecase struct {
	alertRepository   repository.IAlert
	commentRepository repository.IComment
	videoRepository   repository.IVideo
	eventPublisher    repository.IEventPublisher
}

func NewAlertUsecase(
	alertRepository repository.IAlert,
	commentRepository repository.IComment,
	videoRepository repository.IVideo,
	eventPublisher repository.IEventPublisher,
) IAlertUsecase {
	return &AlertUsecase{
		alertRepository:   alertRepository,
		commentRepository: commentRepository,
		videoRepository:   videoRepository,
		eventPublisher:    eventPublisher,
	}
}

func (u *AlertUsecase) RunAlertChecks(ctx context.Context, userID, videoID string) {
	checks := []struct {
		name string
		run  func(context.Context, string, string) error
	}{
		{"comment_spike", u.checkCommentSpike},
		{"sentiment_drop", u.checkSentimentDrop},
		{"toxic_detected", u.checkToxicComments},
		{"viral_comment", u.checkViralComments},
	}
	for _, check := range checks {
		if err := check.run(ctx, userID, videoID); err != nil {
			logger.GetLogger().
				WithField("check", check.name).
				WithField("videoId", videoID).
				WithField("error", err).
				Error("Alert check failed")
		}
	}
}

func (u *AlertUsecase) CheckVideo(ctx context.Context, userID, videoID string) error {
	video, err := u.videoRepository.Get(ctx, videoID)
	if err != nil {
		return err
	}
	if video.UserID != userID {
		return model.ErrForbidden
	}
	u.RunAlertChecks(ctx, userID, videoID)
	return nil
}

// checkCommentSpike compares the current clock hour's comment volume against
// the average of the non-empty hourly buckets of the last seven days. At least
// two buckets overall and one baseline bucket are required before a spike can
// fire.
func (u *AlertUsecase) checkCommentSpike(ctx context.Context, userID, videoID string) error {
	now := utils.GetCurrentTime()
	comments, err := u.commentRepository.ListByVideoSince(ctx, videoID, now.Add(-spikeBaselineWindow))
	if err != nil {
		return err
	}

	buckets := make(map[time.Time]int)
	for _, c := range comments {
		published, err := time.Parse(time.RFC3339, c.PublishedAt)
		if err != nil {
			continue
		}
		buckets[published.UTC().Truncate(time.Hour)]++
	}
	if len(buckets) < 2 {
		return nil
	}

	oneHourAgo := now.Add(-time.Hour)
	baselineTotal, baselineBuckets := 0, 0
	for hour, n := range buckets {
		if hour.Before(oneHourAgo) {
			baselineTotal += n
			baselineBuckets++
		}
	}
	if baselineBuckets == 0 {
		return nil
	}
	avg := float64(baselineTotal) / float64(baselineBuckets)
	if avg <= 0 {
		return nil
	}

	lastHour := buckets[now.UTC().Truncate(time.Hour)]
	ratio := float64(lastHour) / avg
	var severity string
	switch {
	case ratio >= spikeCriticalRatio:
		severity = model.SeverityCritical
	case ratio >= spikeHighRatio:
		severity = model.SeverityHigh
	default:
		return nil
	}

	return u.createAlert(ctx, &model.Alert{
		UserID:   userID,
		VideoID:  videoID,
		Type:     model.AlertTypeCommentSpike,
		Severity: severity,
		Title:    "Comment activity spike",
		Message:  fmt.Sprintf("Comments came in %.1fx faster than usual in the last hour (%d comments).", ratio, lastHour),
		Data: map[string]interface{}{
			"lastHourCount": lastHour,
			"hourlyAverage": avg,
			"ratio":         ratio,
		},
	})
}

// checkSentimentDrop compares mean sentiment of today against yesterday, with
// days bounded at midnight UTC. Both days need at least five analyzed comments
// and yesterday must be positive on average.
func (u *AlertUsecase) checkSentimentDrop(ctx context.Context, userID, videoID string) error {
	now := utils.GetCurrentTime().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	today, err := u.commentRepository.ListByVideoBetween(ctx, videoID, todayStart, now)
	if err != nil {
		return err
	}
	yesterday, err := u.commentRepository.ListByVideoBetween(ctx, videoID, yesterdayStart, todayStart)
	if err != nil {
		return err
	}

	todayMean, todayN := meanSentiment(today)
	yesterdayMean, yesterdayN := meanSentiment(yesterday)
	if todayN < sentimentMinComments || yesterdayN < sentimentMinComments || yesterdayMean <= 0 {
		return nil
	}

	dropPct := (yesterdayMean - todayMean) / yesterdayMean * 100
	var severity string
	switch {
	case dropPct >= sentimentDropHighPct:
		severity = model.SeverityHigh
	case dropPct >= sentimentDropMedPct:
		severity = model.SeverityMedium
	default:
		return nil
	}

	return u.createAlert(ctx, &model.Alert{
		UserID:   userID,
		VideoID:  videoID,
		Type:     model.AlertTypeSentimentDrop,
		Severity: severity,
		Title:    "Sentiment is dropping",
		Message:  fmt.Sprintf("Average sentiment fell %.0f%% compared with the previous day.", dropPct),
		Data: map[string]interface{}{
			"todayMean":     todayMean,
			"yesterdayMean": yesterdayMean,
			"dropPercent":   dropPct,
		},
	})
}

func meanSentiment(comments []model.Comment) (float64, int) {
	sum, n := 0.0, 0
	for _, c := range comments {
		if !c.Analyzed {
			continue
		}
		sum += c.SentimentScore
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// checkToxicComments fires when at least three comments above the toxicity
// threshold arrived in the last 24 hours.
func (u *AlertUsecase) checkToxicComments(ctx context.Context, userID, videoID string) error {
	now := utils.GetCurrentTime()
	comments, err := u.commentRepository.ListByVideoSince(ctx, videoID, now.Add(-24*time.Hour))
	if err != nil {
		return err
	}

	var toxic []model.Comment
	for _, c := range comments {
		if c.Analyzed && c.ToxicityScore > toxicThreshold {
			toxic = append(toxic, c)
		}
	}
	if len(toxic) < toxicMinCount {
		return nil
	}

	samples := make([]string, 0, 3)
	for _, c := range toxic {
		if len(samples) == 3 {
			break
		}
		samples = append(samples, truncateRunes(c.Text, 100))
	}

	return u.createAlert(ctx, &model.Alert{
		UserID:   userID,
		VideoID:  videoID,
		Type:     model.AlertTypeToxicDetected,
		Severity: model.SeverityHigh,
		Title:    "Toxic comments detected",
		Message:  fmt.Sprintf("%d toxic comments appeared in the last 24 hours.", len(toxic)),
		Data: map[string]interface{}{
			"toxicCount": len(toxic),
			"samples":    samples,
		},
	})
}

// checkViralComments flags comments far above the video's usual like level,
// or above an absolute floor.
func (u *AlertUsecase) checkViralComments(ctx context.Context, userID, videoID string) error {
	comments, err := u.commentRepository.ListByVideo(ctx, videoID, viralSampleSize)
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		return nil
	}

	total := 0
	for _, c := range comments {
		total += c.LikeCount
	}
	avg := float64(total) / float64(len(comments))

	for _, c := range comments {
		if c.LikeCount < viralLikeFloor && (avg <= 0 || float64(c.LikeCount) < avg*viralAvgMultiplier) {
			continue
		}
		text := truncateRunes(c.Text, 150)
		return u.createAlert(ctx, &model.Alert{
			UserID:    userID,
			VideoID:   videoID,
			CommentID: c.YouTubeCommentID,
			Type:      model.AlertTypeViralComment,
			Severity:  model.SeverityMedium,
			Title:     "A comment is going viral",
			Message:   fmt.Sprintf("A comment collected %d likes: %q", c.LikeCount, text),
			Data: map[string]interface{}{
				"likeCount":    c.LikeCount,
				"averageLikes": avg,
			},
		})
	}
	return nil
}

// createAlert persists the alert unless one of the same type fired for this
// (user, video) within the dedup window.
func (u *AlertUsecase) createAlert(ctx context.Context, alert *model.Alert) error {
	now := utils.GetCurrentTime()
	exists, err := u.alertRepository.ExistsRecent(ctx, alert.UserID, alert.VideoID, alert.Type, now.Add(-alertDedupWindow))
	if err != nil {
		return fmt.Errorf("failed to check recent alerts: %w", err)
	}
	if exists {
		return nil
	}

	alert.AlertID = uuid.NewString()
	alert.CreatedAt = now
	if err := u.alertRepository.Create(ctx, alert); err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	logger.GetLogger().
		WithField("type", alert.Type).
		WithField("severity", alert.Severity).
		WithField("videoId", alert.VideoID).
		Info("Alert created")

	payload, err := json.Marshal(map[string]interface{}{
		"alertId":  alert.AlertID,
		"userId":   alert.UserID,
		"videoId":  alert.VideoID,
		"type":     alert.Type,
		"severity": alert.Severity,
	})
	if err == nil {
		if err := u.eventPublisher.Publish(ctx, events.TopicAlertCreated, payload); err != nil {
			logger.GetLogger().WithField("alertId", alert.AlertID).WithField("error", err).Warn("Failed to publish alert event")
		}
	}
	return nil
}

func (u *AlertUsecase) ListAlerts(ctx context.Context, userID string, unreadOnly bool) ([]model.Alert, error) {
	return u.alertRepository.ListByUser(ctx, userID, unreadOnly)
}

func (u *AlertUsecase) MarkRead(ctx context.Context, userID, alertID string) error {
	return u.alertRepository.MarkRead(ctx, userID, alertID, utils.GetCurrentTime())
}
