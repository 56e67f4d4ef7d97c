package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/logger"
	"lently/infrastructure/utils"
)

const (
	questionSimilarityThreshold = 0.5
	commonQuestionsTop          = 10
	autoReplyTop                = 3
)

// IReplyUsecase manages AI reply drafts for recurring viewer questions and
// posts them back to YouTube on request.
type IReplyUsecase interface {
	// GenerateReply drafts a reply for a question. Questions similar to an
	// existing saved reply fold into it instead of creating a duplicate.
	GenerateReply(ctx context.Context, userID, question, videoID string) (*model.Reply, error)
	// ExtractCommonQuestions groups the extracted questions of a video's
	// analyzed comments and returns the most frequent ones.
	ExtractCommonQuestions(ctx context.Context, videoID string) ([]model.CommonQuestion, error)
	// GenerateTopReplies drafts replies for a video's most common questions.
	// Called fire-and-forget after a sync; failures are logged, not returned.
	GenerateTopReplies(ctx context.Context, userID, videoID string)
	ListReplies(ctx context.Context, userID string) ([]model.Reply, error)
	UseReply(ctx context.Context, userID, replyID string) error
	// PostReply publishes a saved reply under a YouTube comment, tracking
	// posting status on the reply document.
	PostReply(ctx context.Context, userID, replyID, parentCommentID string) error
}

type ReplyUsecase struct {
	replyRepository   repository.IReply
	commentRepository repository.IComment
	analysisUsecase   IAnalysisUsecase
	youtubeClient     repository.IYouTube
}

func NewReplyUsecase(
	replyRepository repository.IReply,
	commentRepository repository.IComment,
	analysisUsecase IAnalysisUsecase,
	youtubeClient repository.IYouTube,
) IReplyUsecase {
	return &ReplyUsecase{
		replyRepository:   replyRepository,
		commentRepository: commentRepository,
		analysisUsecase:   analysisUsecase,
		youtubeClient:     youtubeClient,
	}
}

func (u *ReplyUsecase) GenerateReply(ctx context.Context, userID, question, videoID string) (*model.Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	if existing, err := u.findSimilarReply(ctx, userID, question); err != nil {
		return nil, err
	} else if existing != nil {
		fields := map[string]interface{}{"timesAsked": existing.TimesAsked + 1}
		if videoID != "" && !contains(existing.VideoIDs, videoID) {
			fields["videoIds"] = append(existing.VideoIDs, videoID)
		}
		if err := u.replyRepository.Update(ctx, existing.ReplyID, fields); err != nil {
			return nil, fmt.Errorf("failed to update existing reply: %w", err)
		}
		existing.TimesAsked++
		return existing, nil
	}

	text, err := u.analysisUsecase.GenerateReplyText(ctx, question)
	if err != nil {
		return nil, err
	}

	reply := &model.Reply{
		ReplyID:    uuid.NewString(),
		UserID:     userID,
		Question:   question,
		ReplyText:  text,
		TimesAsked: 1,
		Status:     model.ReplyStatusDraft,
		CreatedAt:  utils.GetCurrentTime(),
	}
	if videoID != "" {
		reply.VideoIDs = []string{videoID}
	}
	if err := u.replyRepository.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to save reply: %w", err)
	}
	return reply, nil
}

// findSimilarReply checks the user's saved replies for an exact normalized
// match first, then for a word-overlap match above the similarity threshold.
func (u *ReplyUsecase) findSimilarReply(ctx context.Context, userID, question string) (*model.Reply, error) {
	normalized := strings.ToLower(strings.TrimSpace(question))
	exact, err := u.replyRepository.FindByNormalizedQuestion(ctx, userID, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up reply: %w", err)
	}
	if exact != nil {
		return exact, nil
	}

	replies, err := u.replyRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	for i := range replies {
		if questionSimilarity(question, replies[i].Question) > questionSimilarityThreshold {
			return &replies[i], nil
		}
	}
	return nil, nil
}

func (u *ReplyUsecase) ExtractCommonQuestions(ctx context.Context, videoID string) ([]model.CommonQuestion, error) {
	comments, err := u.commentRepository.ListByVideoCategory(ctx, videoID, model.CategoryQuestion)
	if err != nil {
		return nil, fmt.Errorf("failed to list question comments: %w", err)
	}

	var groups []model.CommonQuestion
	for _, c := range comments {
		question := strings.TrimSpace(c.ExtractedQuestion)
		if question == "" {
			question = strings.TrimSpace(c.Text)
		}
		if question == "" {
			continue
		}

		matched := false
		for i := range groups {
			if questionSimilarity(question, groups[i].Question) > questionSimilarityThreshold {
				groups[i].Count++
				groups[i].CommentIDs = append(groups[i].CommentIDs, c.YouTubeCommentID)
				matched = true
				break
			}
		}
		if !matched {
			groups = append(groups, model.CommonQuestion{
				Question:   question,
				Count:      1,
				CommentIDs: []string{c.YouTubeCommentID},
			})
		}
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	if len(groups) > commonQuestionsTop {
		groups = groups[:commonQuestionsTop]
	}
	return groups, nil
}

func (u *ReplyUsecase) GenerateTopReplies(ctx context.Context, userID, videoID string) {
	questions, err := u.ExtractCommonQuestions(ctx, videoID)
	if err != nil {
		logger.GetLogger().WithField("videoId", videoID).WithField("error", err).
			Error("Failed to extract common questions")
		return
	}
	if len(questions) > autoReplyTop {
		questions = questions[:autoReplyTop]
	}
	for _, q := range questions {
		if _, err := u.GenerateReply(ctx, userID, q.Question, videoID); err != nil {
			logger.GetLogger().WithField("question", q.Question).WithField("error", err).
				Error("Failed to generate reply draft")
		}
	}
}

func (u *ReplyUsecase) ListReplies(ctx context.Context, userID string) ([]model.Reply, error) {
	return u.replyRepository.ListByUser(ctx, userID)
}

func (u *ReplyUsecase) UseReply(ctx context.Context, userID, replyID string) error {
	reply, err := u.ownedReply(ctx, userID, replyID)
	if err != nil {
		return err
	}
	return u.replyRepository.IncrementUseCount(ctx, reply.ReplyID, utils.GetCurrentTime())
}

func (u *ReplyUsecase) PostReply(ctx context.Context, userID, replyID, parentCommentID string) error {
	reply, err := u.ownedReply(ctx, userID, replyID)
	if err != nil {
		return err
	}

	if err := u.replyRepository.Update(ctx, replyID, map[string]interface{}{
		"status":   model.ReplyStatusPosting,
		"attempts": reply.Attempts + 1,
	}); err != nil {
		return fmt.Errorf("failed to mark reply posting: %w", err)
	}

	commentID, err := u.youtubeClient.PostCommentReply(ctx, userID, parentCommentID, reply.ReplyText)
	if err != nil {
		_ = u.replyRepository.Update(ctx, replyID, map[string]interface{}{
			"status":    model.ReplyStatusFailed,
			"lastError": err.Error(),
		})
		return fmt.Errorf("failed to post reply: %w", err)
	}

	now := utils.GetCurrentTime()
	if err := u.replyRepository.Update(ctx, replyID, map[string]interface{}{
		"status":           model.ReplyStatusPosted,
		"youtubeCommentId": commentID,
		"postedAt":         now,
		"lastError":        "",
	}); err != nil {
		return fmt.Errorf("failed to mark reply posted: %w", err)
	}
	return u.replyRepository.IncrementUseCount(ctx, replyID, now)
}

func (u *ReplyUsecase) ownedReply(ctx context.Context, userID, replyID string) (*model.Reply, error) {
	reply, err := u.replyRepository.Get(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply.UserID != userID {
		return nil, model.ErrForbidden
	}
	return reply, nil
}

// stop words ignored in similarity comparison
var questionStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"do": {}, "does": {}, "did": {}, "can": {}, "could": {}, "will": {},
	"would": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"how": {}, "why": {}, "you": {}, "your": {}, "i": {}, "my": {}, "me": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "for": {}, "and": {}, "or": {},
	"it": {}, "this": {}, "that": {}, "please": {},
}

func significantWords(question string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, ".,!?\"'()")
		if w == "" {
			continue
		}
		if _, stop := questionStopWords[w]; stop {
			continue
		}
		words[w] = struct{}{}
	}
	return words
}

// questionSimilarity is the Jaccard index over significant words.
func questionSimilarity(a, b string) float64 {
	wa, wb := significantWords(a), significantWords(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	intersection := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			intersection++
		}
	}
	union := len(wa) + len(wb) - intersection
	return float64(intersection) / float64(union)
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
