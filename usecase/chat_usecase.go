package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lently/domain/dto"
	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/logger"
	"lently/infrastructure/utils"
)

// The selector over-fetches so category and keyword filtering still leaves
// enough material for the answer prompt.
const selectorOverfetch = 3

// IChatUsecase answers creator questions over a video's analyzed comments.
type IChatUsecase interface {
	// Ask answers one question. Cache hits return the stored answer without
	// an inference call and without consuming AI question quota.
	Ask(ctx context.Context, userID string, req *dto.AskRequest) (*dto.AskResponse, error)
	SuggestedQuestions() *dto.SuggestedQuestionsResponse
	// ClearAnswerCache drops all cached answers for a video.
	ClearAnswerCache(ctx context.Context, userID, videoID string) error
}

type ChatUsecase struct {
	videoRepository        repository.IVideo
	commentRepository      repository.IComment
	conversationRepository repository.IConversation
	answerCache            repository.IAnswerCache
	analysisUsecase        IAnalysisUsecase
	usageUsecase           IUsageUsecase
}

func NewChatUsecase(
	videoRepository repository.IVideo,
	commentRepository repository.IComment,
	conversationRepository repository.IConversation,
	answerCache repository.IAnswerCache,
	analysisUsecase IAnalysisUsecase,
	usageUsecase IUsageUsecase,
) IChatUsecase {
	return &ChatUsecase{
		videoRepository:        videoRepository,
		commentRepository:      commentRepository,
		conversationRepository: conversationRepository,
		answerCache:            answerCache,
		analysisUsecase:        analysisUsecase,
		usageUsecase:           usageUsecase,
	}
}

func (u *ChatUsecase) Ask(ctx context.Context, userID string, req *dto.AskRequest) (*dto.AskResponse, error) {
	video, err := u.videoRepository.Get(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}
	if video.UserID != userID {
		return nil, model.ErrForbidden
	}

	if _, err := u.usageUsecase.CheckLimit(ctx, userID, CounterAIQuestionsUsed); err != nil {
		return nil, err
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if cached, err := u.answerCache.Get(ctx, req.VideoID, req.Question); err == nil && cached != nil {
		u.saveTurns(ctx, userID, req.VideoID, conversationID, req.Question, cached.Answer)
		return &dto.AskResponse{
			Answer:            cached.Answer,
			Confidence:        cached.Confidence,
			RelatedCommentIDs: cached.RelatedCommentIDs,
			ConversationID:    conversationID,
			Cached:            true,
		}, nil
	}

	intent := u.analysisUsecase.ClassifyIntent(ctx, req.Question)
	comments, err := u.selectRelevantComments(ctx, req.VideoID, req.Question, intent)
	if err != nil {
		return nil, err
	}

	history, err := u.conversationRepository.RecentTurns(ctx, conversationID, historyWindowTurns)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to load conversation history")
		history = nil
	}

	answer, err := u.analysisUsecase.AnswerQuestion(ctx, req.Question, comments, history)
	if err != nil {
		return nil, err
	}

	if err := u.answerCache.Put(ctx, req.VideoID, req.Question, model.CachedAnswer{
		Question:          req.Question,
		Answer:            answer.Answer,
		Confidence:        answer.Confidence,
		RelatedCommentIDs: answer.RelatedCommentIDs,
		CachedAt:          utils.GetCurrentTime(),
	}); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to cache answer")
	}
	if err := u.usageUsecase.Increment(ctx, userID, CounterAIQuestionsUsed, 1); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to increment AI question counter")
	}
	u.saveTurns(ctx, userID, req.VideoID, conversationID, req.Question, answer.Answer)

	return &dto.AskResponse{
		Answer:            answer.Answer,
		Confidence:        answer.Confidence,
		RelatedCommentIDs: answer.RelatedCommentIDs,
		ConversationID:    conversationID,
	}, nil
}

var intentCategories = map[string]string{
	model.IntentComplaints:  model.CategoryComplaint,
	model.IntentQuestions:   model.CategoryQuestion,
	model.IntentPraise:      model.CategoryPraise,
	model.IntentSuggestions: model.CategorySuggestion,
}

// selectRelevantComments narrows the video's comments down to the ones the
// question is about. Filters that leave nothing fall back to the unfiltered
// set rather than answering over an empty context.
func (u *ChatUsecase) selectRelevantComments(ctx context.Context, videoID, question, intent string) ([]model.Comment, error) {
	comments, err := u.commentRepository.ListByVideo(ctx, videoID, answerMaxComments*selectorOverfetch)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	var filtered []model.Comment
	switch {
	case intent == model.IntentSpecificTopic:
		keywords := topicKeywords(question)
		for _, c := range comments {
			if matchesKeywords(c.Text, keywords) {
				filtered = append(filtered, c)
			}
		}
	case intentCategories[intent] != "":
		category := intentCategories[intent]
		for _, c := range comments {
			if c.Category == category {
				filtered = append(filtered, c)
			}
		}
	default:
		filtered = comments
	}

	if len(filtered) == 0 {
		filtered = comments
	}
	if len(filtered) > answerMaxComments {
		filtered = filtered[:answerMaxComments]
	}
	return filtered, nil
}

// topicKeywords keeps only words long enough to carry topical meaning. Short
// tokens match too many unrelated comments.
func topicKeywords(question string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for w := range significantWords(question) {
		if len([]rune(w)) > 3 {
			keywords[w] = struct{}{}
		}
	}
	return keywords
}

func matchesKeywords(text string, keywords map[string]struct{}) bool {
	lower := strings.ToLower(text)
	for kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (u *ChatUsecase) saveTurns(ctx context.Context, userID, videoID, conversationID, question, answer string) {
	now := utils.GetCurrentTime()
	turns := []model.ConversationTurn{
		{ConversationID: conversationID, Role: "user", Content: question, UserID: userID, VideoID: videoID, Timestamp: now},
		// Nudge the assistant turn forward so timestamp ordering is stable.
		{ConversationID: conversationID, Role: "assistant", Content: answer, UserID: userID, VideoID: videoID, Timestamp: now.Add(time.Millisecond)},
	}
	for i := range turns {
		if err := u.conversationRepository.SaveTurn(ctx, &turns[i]); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to save conversation turn")
			return
		}
	}
}

var suggestedQuestions = []string{
	"What do viewers like most about this video?",
	"What are the most common complaints?",
	"What questions do viewers keep asking?",
	"What topics do viewers want me to cover next?",
	"How is the overall sentiment trending?",
	"Are there any toxic comments I should be aware of?",
}

func (u *ChatUsecase) SuggestedQuestions() *dto.SuggestedQuestionsResponse {
	return &dto.SuggestedQuestionsResponse{Questions: suggestedQuestions}
}

func (u *ChatUsecase) ClearAnswerCache(ctx context.Context, userID, videoID string) error {
	video, err := u.videoRepository.Get(ctx, videoID)
	if err != nil {
		return err
	}
	if video.UserID != userID {
		return model.ErrForbidden
	}
	return u.answerCache.ClearVideo(ctx, videoID)
}
