package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lently/domain/model"
	"lently/usecase"
)

func makeComments(n int) []model.Comment {
	comments := make([]model.Comment, n)
	for i := range comments {
		comments[i] = model.Comment{
			YouTubeCommentID: fmt.Sprintf("c%d", i+1),
			VideoID:          "video-1",
			Text:             fmt.Sprintf("comment number %d", i+1),
		}
	}
	return comments
}

func TestClassifyComments_LabelsEveryComment(t *testing.T) {
	mockModel := new(MockGenerativeModel)
	mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`[
			{"category":"praise","sentiment_score":0.9,"sentiment_label":"positive","toxicity_score":0.0,"extracted_question":""},
			{"category":"QUESTION","sentiment_score":0.1,"sentiment_label":"neutral","toxicity_score":0.0,"extracted_question":"when is part 2?"}
		]`, nil)

	uc := usecase.NewAnalysisUsecase(mockModel)
	labels := uc.ClassifyComments(context.Background(), makeComments(2))

	assert.Len(t, labels, 2)
	assert.Equal(t, "c1", labels[0].CommentID)
	assert.Equal(t, model.CategoryPraise, labels[0].Category)
	assert.False(t, labels[0].Error)
	// category names are case-insensitive
	assert.Equal(t, model.CategoryQuestion, labels[1].Category)
	assert.Equal(t, "when is part 2?", labels[1].ExtractedQuestion)
}

func TestClassifyComments_ModelFailureYieldsPlaceholders(t *testing.T) {
	mockModel := new(MockGenerativeModel)
	mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("rate limited"))

	uc := usecase.NewAnalysisUsecase(mockModel)
	labels := uc.ClassifyComments(context.Background(), makeComments(3))

	assert.Len(t, labels, 3)
	for i, label := range labels {
		assert.Equal(t, fmt.Sprintf("c%d", i+1), label.CommentID)
		assert.Equal(t, model.CategoryNeutral, label.Category)
		assert.True(t, label.Error)
		assert.Zero(t, label.SentimentScore)
		assert.Zero(t, label.ToxicityScore)
	}
}

func TestClassifyComments_MalformedResponseYieldsPlaceholders(t *testing.T) {
	mockModel := new(MockGenerativeModel)
	mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("I cannot classify these comments.", nil)

	uc := usecase.NewAnalysisUsecase(mockModel)
	labels := uc.ClassifyComments(context.Background(), makeComments(2))

	assert.Len(t, labels, 2)
	assert.True(t, labels[0].Error)
	assert.True(t, labels[1].Error)
}

func TestClassifyComments_RepairsTruncatedResponse(t *testing.T) {
	// The closing bracket never arrived; the parser should still recover both
	// complete objects.
	truncated := "```json\n[" +
		`{"category":"complaint","sentiment_score":-0.7,"sentiment_label":"negative","toxicity_score":0.2,"extracted_question":""},` +
		`{"category":"neutral","sentiment_score":0.0,"sentiment_label":"neutral","toxicity_score":0.0,"extracted_question":""}` +
		`,{"category":"pra`

	mockModel := new(MockGenerativeModel)
	mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(truncated, nil)

	uc := usecase.NewAnalysisUsecase(mockModel)
	labels := uc.ClassifyComments(context.Background(), makeComments(2))

	assert.Len(t, labels, 2)
	assert.Equal(t, model.CategoryComplaint, labels[0].Category)
	assert.False(t, labels[0].Error)
	assert.Equal(t, -0.7, labels[0].SentimentScore)
}

func TestClassifyComments_CountMismatchYieldsPlaceholders(t *testing.T) {
	mockModel := new(MockGenerativeModel)
	mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`[{"category":"praise","sentiment_score":0.5,"sentiment_label":"positive","toxicity_score":0.0,"extracted_question":""}]`, nil)

	uc := usecase.NewAnalysisUsecase(mockModel)
	labels := uc.ClassifyComments(context.Background(), makeComments(3))

	assert.Len(t, labels, 3)
	for _, label := range labels {
		assert.True(t, label.Error)
	}
}

func TestClassifyComments_ClampsOutOfRangeScores(t *testing.T) {
	mockModel := new(MockGenerativeModel)
	mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`[{"category":"spam","sentiment_score":-3.5,"sentiment_label":"negative","toxicity_score":1.8,"extracted_question":""}]`, nil)

	uc := usecase.NewAnalysisUsecase(mockModel)
	labels := uc.ClassifyComments(context.Background(), makeComments(1))

	assert.Len(t, labels, 1)
	assert.Equal(t, -1.0, labels[0].SentimentScore)
	assert.Equal(t, 1.0, labels[0].ToxicityScore)
}

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		response string
		err      error
		expected string
	}{
		{"complaints", nil, model.IntentComplaints},
		{" Specific_Topic \n", nil, model.IntentSpecificTopic},
		{"something else entirely", nil, model.IntentGeneral},
		{"", errors.New("timeout"), model.IntentGeneral},
	}
	for _, tc := range cases {
		mockModel := new(MockGenerativeModel)
		mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(tc.response, tc.err)
		uc := usecase.NewAnalysisUsecase(mockModel)
		assert.Equal(t, tc.expected, uc.ClassifyIntent(context.Background(), "why so many dislikes?"))
	}
}

func TestAnswerQuestion_ConfidenceHeuristic(t *testing.T) {
	cases := []struct {
		name       string
		comments   int
		answer     string
		confidence float64
	}{
		{"thin evidence", 3, "Viewers love the editing.", 0.5},
		{"hedged answer", 10, "There is not enough information in the comments to say.", 0.6},
		{"confident answer", 10, "Viewers consistently praise the editing.", 0.8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockModel := new(MockGenerativeModel)
			mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(tc.answer, nil)

			uc := usecase.NewAnalysisUsecase(mockModel)
			answer, err := uc.AnswerQuestion(context.Background(), "what do viewers think?", makeComments(tc.comments), nil)

			assert.NoError(t, err)
			assert.Equal(t, tc.confidence, answer.Confidence)
			assert.Len(t, answer.RelatedCommentIDs, tc.comments)
		})
	}
}

func TestAnswerQuestion_CapsRelatedComments(t *testing.T) {
	mockModel := new(MockGenerativeModel)
	mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("Viewers consistently praise the editing.", nil)

	uc := usecase.NewAnalysisUsecase(mockModel)
	answer, err := uc.AnswerQuestion(context.Background(), "what do viewers think?", makeComments(25), nil)

	assert.NoError(t, err)
	assert.Len(t, answer.RelatedCommentIDs, 10)
	assert.Equal(t, "c1", answer.RelatedCommentIDs[0])
}

func TestClassifyComments_TruncatesOnRuneBoundaries(t *testing.T) {
	var prompt string
	mockModel := new(MockGenerativeModel)
	mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return(`[{"category":"praise","sentiment_score":0.9,"sentiment_label":"positive","toxicity_score":0.0,"extracted_question":""}]`, nil)

	comments := makeComments(1)
	comments[0].Text = strings.Repeat("すごく良い動画でした！", 60)

	uc := usecase.NewAnalysisUsecase(mockModel)
	labels := uc.ClassifyComments(context.Background(), comments)

	assert.Len(t, labels, 1)
	assert.False(t, labels[0].Error)
	assert.True(t, utf8.ValidString(prompt))
}

func TestAnswerQuestion_UsesOnlyRecentHistory(t *testing.T) {
	var prompt string
	mockModel := new(MockGenerativeModel)
	mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return("An answer.", nil)

	history := []model.ConversationTurn{
		{Role: "user", Content: "oldest turn"},
		{Role: "assistant", Content: "second turn"},
		{Role: "user", Content: "third turn"},
		{Role: "assistant", Content: "fourth turn"},
	}

	uc := usecase.NewAnalysisUsecase(mockModel)
	_, err := uc.AnswerQuestion(context.Background(), "and then?", makeComments(6), history)

	assert.NoError(t, err)
	assert.NotContains(t, prompt, "oldest turn")
	assert.Contains(t, prompt, "second turn")
	assert.Contains(t, prompt, "fourth turn")
}
