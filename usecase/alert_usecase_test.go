package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lently/domain/model"
	"lently/usecase"
)

type alertFixture struct {
	alerts   *MockAlertRepository
	comments *MockCommentRepository
	videos   *MockVideoRepository
	events   *MockEventPublisher
	alertUC  usecase.IAlertUsecase
}

func newAlertFixture() *alertFixture {
	f := &alertFixture{
		alerts:   new(MockAlertRepository),
		comments: new(MockCommentRepository),
		videos:   new(MockVideoRepository),
		events:   new(MockEventPublisher),
	}
	f.events.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.alertUC = usecase.NewAlertUsecase(f.alerts, f.comments, f.videos, f.events)
	return f
}

// quiet stubs the comment queries the checks run, so a test can arm only the
// signal it cares about.
func (f *alertFixture) quiet() {
	f.comments.On("ListByVideoSince", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.comments.On("ListByVideoBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.comments.On("ListByVideo", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
}

func commentAt(id string, age time.Duration) model.Comment {
	return model.Comment{
		YouTubeCommentID: id,
		VideoID:          "vid11chars0",
		Text:             "a comment",
		PublishedAt:      time.Now().UTC().Add(-age).Format(time.RFC3339),
		Analyzed:         true,
	}
}

func commentPublishedAt(id string, ts time.Time) model.Comment {
	c := commentAt(id, 0)
	c.PublishedAt = ts.Format(time.RFC3339)
	return c
}

// spikeComments pins the fresh comments to the current clock hour and the
// baseline to fixed earlier hours so bucketing is stable regardless of when
// the test runs.
func spikeComments(lastHour, perOldBucket int) []model.Comment {
	currentHour := time.Now().UTC().Truncate(time.Hour)
	var comments []model.Comment
	for i := 0; i < lastHour; i++ {
		comments = append(comments, commentPublishedAt(fmt.Sprintf("new%d", i), currentHour))
	}
	for i := 0; i < perOldBucket; i++ {
		comments = append(comments, commentPublishedAt(fmt.Sprintf("old2h%d", i), currentHour.Add(-2*time.Hour)))
		comments = append(comments, commentPublishedAt(fmt.Sprintf("old5h%d", i), currentHour.Add(-5*time.Hour)))
	}
	return comments
}

func TestCommentSpike_SeverityBands(t *testing.T) {
	cases := []struct {
		name     string
		lastHour int
		severity string
	}{
		{"critical at 10x", 20, model.SeverityCritical},
		{"high at 5x", 10, model.SeverityHigh},
		{"quiet below 5x", 2, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAlertFixture()
			// two baseline buckets of 2 comments each, hourly average 2
			f.comments.On("ListByVideoSince", mock.Anything, "vid11chars0", mock.Anything).
				Return(spikeComments(tc.lastHour, 2), nil)
			f.comments.On("ListByVideoBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
			f.comments.On("ListByVideo", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
			f.alerts.On("ExistsRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
			f.alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

			f.alertUC.RunAlertChecks(context.Background(), "user-1", "vid11chars0")

			if tc.severity == "" {
				f.alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				f.alerts.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(a *model.Alert) bool {
					return a.Type == model.AlertTypeCommentSpike && a.Severity == tc.severity
				}))
			}
		})
	}
}

func isMidnightUTC(ts time.Time) bool {
	return ts.Equal(time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC))
}

func TestSentimentDrop_FiresHighOnSteepDrop(t *testing.T) {
	f := newAlertFixture()
	f.comments.On("ListByVideoSince", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.comments.On("ListByVideo", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)

	withSentiment := func(score float64, n int, prefix string) []model.Comment {
		comments := make([]model.Comment, n)
		for i := range comments {
			comments[i] = commentAt(fmt.Sprintf("%s%d", prefix, i), time.Hour)
			comments[i].SentimentScore = score
		}
		return comments
	}
	// today runs from midnight UTC to now, yesterday is the full previous day
	f.comments.On("ListByVideoBetween", mock.Anything, "vid11chars0", mock.MatchedBy(isMidnightUTC), mock.MatchedBy(func(to time.Time) bool {
		return !isMidnightUTC(to)
	})).Return(withSentiment(0.2, 6, "today"), nil)
	f.comments.On("ListByVideoBetween", mock.Anything, "vid11chars0", mock.MatchedBy(isMidnightUTC), mock.MatchedBy(isMidnightUTC)).
		Return(withSentiment(0.6, 6, "yesterday"), nil)

	f.alerts.On("ExistsRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	f.alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

	f.alertUC.RunAlertChecks(context.Background(), "user-1", "vid11chars0")

	// 0.6 -> 0.2 is a 66% drop
	f.alerts.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(a *model.Alert) bool {
		return a.Type == model.AlertTypeSentimentDrop && a.Severity == model.SeverityHigh
	}))
}

func TestCommentSpike_BaselineSpansSevenDays(t *testing.T) {
	f := newAlertFixture()
	currentHour := time.Now().UTC().Truncate(time.Hour)
	// an equally busy hour three days back keeps the average high
	comments := make([]model.Comment, 0, 40)
	for i := 0; i < 20; i++ {
		comments = append(comments, commentPublishedAt(fmt.Sprintf("new%d", i), currentHour))
		comments = append(comments, commentPublishedAt(fmt.Sprintf("old3d%d", i), currentHour.Add(-72*time.Hour)))
	}
	f.comments.On("ListByVideoSince", mock.Anything, "vid11chars0", mock.MatchedBy(func(since time.Time) bool {
		return time.Since(since) > 6*24*time.Hour
	})).Return(comments, nil)
	// the toxicity check reads a 24 hour window
	f.comments.On("ListByVideoSince", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.comments.On("ListByVideoBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.comments.On("ListByVideo", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.alerts.On("ExistsRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	f.alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

	f.alertUC.RunAlertChecks(context.Background(), "user-1", "vid11chars0")

	f.alerts.AssertNotCalled(t, "Create", mock.Anything, mock.MatchedBy(func(a *model.Alert) bool {
		return a.Type == model.AlertTypeCommentSpike
	}))
}

func TestSentimentDrop_SkippedWithThinWindows(t *testing.T) {
	f := newAlertFixture()
	f.quiet()
	f.alertUC.RunAlertChecks(context.Background(), "user-1", "vid11chars0")
	f.alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestToxicComments_FireAtThreeOverThreshold(t *testing.T) {
	f := newAlertFixture()
	toxic := make([]model.Comment, 3)
	for i := range toxic {
		// two hours old so the spike baseline stays below two buckets
		toxic[i] = commentAt(fmt.Sprintf("tox%d", i), 2*time.Hour)
		toxic[i].ToxicityScore = 0.9
	}
	f.comments.On("ListByVideoSince", mock.Anything, "vid11chars0", mock.Anything).Return(toxic, nil)
	f.comments.On("ListByVideoBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.comments.On("ListByVideo", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.alerts.On("ExistsRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	f.alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

	f.alertUC.RunAlertChecks(context.Background(), "user-1", "vid11chars0")

	f.alerts.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(a *model.Alert) bool {
		if a.Type != model.AlertTypeToxicDetected || a.Severity != model.SeverityHigh {
			return false
		}
		samples, ok := a.Data["samples"].([]string)
		return ok && len(samples) == 3
	}))
}

func TestViralComment_AbsoluteLikeFloor(t *testing.T) {
	f := newAlertFixture()
	f.comments.On("ListByVideoSince", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.comments.On("ListByVideoBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)

	viral := commentAt("hot", 3*time.Hour)
	viral.LikeCount = 600
	f.comments.On("ListByVideo", mock.Anything, "vid11chars0", mock.Anything).Return([]model.Comment{viral}, nil)
	f.alerts.On("ExistsRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	f.alerts.On("Create", mock.Anything, mock.Anything).Return(nil)

	f.alertUC.RunAlertChecks(context.Background(), "user-1", "vid11chars0")

	f.alerts.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(a *model.Alert) bool {
		return a.Type == model.AlertTypeViralComment && a.Severity == model.SeverityMedium && a.CommentID == "hot"
	}))
	f.events.AssertCalled(t, "Publish", mock.Anything, "alert-created", mock.Anything)
}

func TestCheckVideo_OwnershipEnforced(t *testing.T) {
	f := newAlertFixture()
	f.videos.On("Get", mock.Anything, "vid11chars0").Return(&model.Video{YouTubeVideoID: "vid11chars0", UserID: "someone-else"}, nil)

	err := f.alertUC.CheckVideo(context.Background(), "user-1", "vid11chars0")

	assert.ErrorIs(t, err, model.ErrForbidden)
	f.comments.AssertNotCalled(t, "ListByVideoSince", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckVideo_RunsChecksForOwnedVideo(t *testing.T) {
	f := newAlertFixture()
	f.videos.On("Get", mock.Anything, "vid11chars0").Return(&model.Video{YouTubeVideoID: "vid11chars0", UserID: "user-1"}, nil)
	f.quiet()

	err := f.alertUC.CheckVideo(context.Background(), "user-1", "vid11chars0")

	assert.NoError(t, err)
	f.comments.AssertCalled(t, "ListByVideo", mock.Anything, "vid11chars0", mock.Anything)
}

func TestAlerts_DedupWithin24Hours(t *testing.T) {
	f := newAlertFixture()
	f.comments.On("ListByVideoSince", mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)
	f.comments.On("ListByVideoBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]model.Comment{}, nil)

	viral := commentAt("hot", 3*time.Hour)
	viral.LikeCount = 600
	f.comments.On("ListByVideo", mock.Anything, "vid11chars0", mock.Anything).Return([]model.Comment{viral}, nil)
	f.alerts.On("ExistsRecent", mock.Anything, "user-1", "vid11chars0", model.AlertTypeViralComment, mock.Anything).Return(true, nil)

	f.alertUC.RunAlertChecks(context.Background(), "user-1", "vid11chars0")

	f.alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMarkRead_Passthrough(t *testing.T) {
	f := newAlertFixture()
	f.alerts.On("MarkRead", mock.Anything, "user-1", "alert-1", mock.Anything).Return(nil)

	err := f.alertUC.MarkRead(context.Background(), "user-1", "alert-1")

	assert.NoError(t, err)
	f.alerts.AssertExpectations(t)
}
