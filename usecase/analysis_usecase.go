package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/logger"
)

const (
	// Comment text is truncated before prompting to keep batches inside the
	// model context window.
	classifyCommentMaxChars = 500
	answerCommentMaxChars   = 300
	answerMaxComments       = 100
	relatedCommentsMax      = 10
	historyWindowTurns      = 3
)

// IAnalysisUsecase wraps the generative model with the prompt construction,
// response parsing and fallback policies of the analysis pipeline.
type IAnalysisUsecase interface {
	// ClassifyComments labels one batch of comments. The returned slice always
	// has exactly one entry per input comment, in input order; when the model
	// call or parse fails, every entry of the batch carries placeholder labels
	// with Error set.
	ClassifyComments(ctx context.Context, comments []model.Comment) []model.CommentAnalysis
	// ClassifyIntent maps a free-form question onto one of the known intents.
	// Any failure degrades to IntentGeneral.
	ClassifyIntent(ctx context.Context, question string) string
	// AnswerQuestion answers a question over a comment selection, optionally
	// continuing a conversation.
	AnswerQuestion(ctx context.Context, question string, comments []model.Comment, history []model.ConversationTurn) (*model.ChatAnswer, error)
	// GenerateReplyText drafts a reply the creator could post under a
	// recurring question.
	GenerateReplyText(ctx context.Context, question string) (string, error)
}

type AnalysisUsecase struct {
	generativeModel repository.IGenerativeModel
}

func NewAnalysisUsecase(generativeModel repository.IGenerativeModel) IAnalysisUsecase {
	return &AnalysisUsecase{generativeModel: generativeModel}
}

type classifiedLabel struct {
	Category          string  `json:"category"`
	SentimentScore    float64 `json:"sentiment_score"`
	SentimentLabel    string  `json:"sentiment_label"`
	ToxicityScore     float64 `json:"toxicity_score"`
	ExtractedQuestion string  `json:"extracted_question"`
}

func (u *AnalysisUsecase) ClassifyComments(ctx context.Context, comments []model.Comment) []model.CommentAnalysis {
	if len(comments) == 0 {
		return nil
	}

	prompt := buildClassifyPrompt(comments)
	raw, err := u.generativeModel.Generate(ctx, prompt, 8192, 0.1)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("batch", len(comments)).
			Error("Classification call failed - using placeholder labels")
		return placeholderLabels(comments)
	}

	labels, err := parseLabelArray(raw)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("batch", len(comments)).
			Error("Classification response unparseable - using placeholder labels")
		return placeholderLabels(comments)
	}
	if len(labels) != len(comments) {
		logger.GetLogger().WithField("expected", len(comments)).WithField("got", len(labels)).
			Error("Classification label count mismatch - using placeholder labels")
		return placeholderLabels(comments)
	}

	out := make([]model.CommentAnalysis, len(comments))
	for i, c := range comments {
		out[i] = model.CommentAnalysis{
			CommentID:         c.YouTubeCommentID,
			Category:          normalizeCategory(labels[i].Category),
			SentimentScore:    clampScore(labels[i].SentimentScore, -1, 1),
			SentimentLabel:    labels[i].SentimentLabel,
			ToxicityScore:     clampScore(labels[i].ToxicityScore, 0, 1),
			ExtractedQuestion: labels[i].ExtractedQuestion,
		}
	}
	return out
}

func buildClassifyPrompt(comments []model.Comment) string {
	var b strings.Builder
	b.WriteString("Analyze the following YouTube comments. For EACH comment return a JSON object with:\n")
	b.WriteString("- category: one of question, praise, complaint, spam, suggestion, neutral\n")
	b.WriteString("- sentiment_score: a number between -1.0 (very negative) and 1.0 (very positive)\n")
	b.WriteString("- sentiment_label: positive, negative, or neutral\n")
	b.WriteString("- toxicity_score: a number between 0.0 and 1.0\n")
	b.WriteString("- extracted_question: if the comment contains a question, the question text, otherwise an empty string\n\n")
	b.WriteString("Respond with ONLY a JSON array, one object per comment, in the same order. No markdown.\n\nComments:\n")
	for i, c := range comments {
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncateRunes(c.Text, classifyCommentMaxChars))
	}
	return b.String()
}

// parseLabelArray parses the model's JSON array, tolerating markdown fences
// and a truncated tail. When the array is cut mid-element, the incomplete
// trailing element is discarded.
func parseLabelArray(raw string) ([]classifiedLabel, error) {
	cleaned := stripCodeFence(raw)

	start := strings.Index(cleaned, "[")
	if start < 0 {
		return nil, fmt.Errorf("no JSON array in response")
	}
	cleaned = cleaned[start:]

	var labels []classifiedLabel
	if err := json.Unmarshal([]byte(cleaned), &labels); err == nil {
		return labels, nil
	}

	// Truncated output: cut back to the last complete object and close the
	// array.
	end := strings.LastIndex(cleaned, "}")
	if end < 0 {
		return nil, fmt.Errorf("no complete JSON object in response")
	}
	repaired := cleaned[:end+1] + "]"
	if err := json.Unmarshal([]byte(repaired), &labels); err != nil {
		return nil, fmt.Errorf("failed to parse labels after repair: %w", err)
	}
	logger.GetLogger().WithField("recovered", len(labels)).Warn("Repaired truncated classification response")
	return labels, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func placeholderLabels(comments []model.Comment) []model.CommentAnalysis {
	out := make([]model.CommentAnalysis, len(comments))
	for i, c := range comments {
		out[i] = model.CommentAnalysis{
			CommentID:      c.YouTubeCommentID,
			Category:       model.CategoryNeutral,
			SentimentLabel: "neutral",
			Error:          true,
		}
	}
	return out
}

var knownCategories = map[string]struct{}{
	model.CategoryQuestion:   {},
	model.CategoryPraise:     {},
	model.CategoryComplaint:  {},
	model.CategorySpam:       {},
	model.CategorySuggestion: {},
	model.CategoryNeutral:    {},
}

func normalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if _, ok := knownCategories[c]; ok {
		return c
	}
	return model.CategoryNeutral
}

func clampScore(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// truncateRunes shortens s to at most n characters without splitting a
// multibyte rune.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

var knownIntents = map[string]struct{}{
	model.IntentComplaints:    {},
	model.IntentQuestions:     {},
	model.IntentPraise:        {},
	model.IntentSuggestions:   {},
	model.IntentSpecificTopic: {},
	model.IntentGeneral:       {},
}

func (u *AnalysisUsecase) ClassifyIntent(ctx context.Context, question string) string {
	prompt := fmt.Sprintf(
		"Classify this question about YouTube comments into exactly one intent: "+
			"complaints, questions, praise, suggestions, specific_topic, or general.\n"+
			"Respond with only the intent word.\n\nQuestion: %s", question)

	raw, err := u.generativeModel.Generate(ctx, prompt, 16, 0.0)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Intent classification failed - defaulting to general")
		return model.IntentGeneral
	}
	intent := strings.ToLower(strings.TrimSpace(stripCodeFence(raw)))
	if _, ok := knownIntents[intent]; ok {
		return intent
	}
	return model.IntentGeneral
}

func (u *AnalysisUsecase) AnswerQuestion(ctx context.Context, question string, comments []model.Comment, history []model.ConversationTurn) (*model.ChatAnswer, error) {
	if len(comments) > answerMaxComments {
		comments = comments[:answerMaxComments]
	}

	var b strings.Builder
	b.WriteString("You are an assistant helping a YouTube creator understand their audience.\n")
	b.WriteString("Answer the creator's question using ONLY the viewer comments below. ")
	b.WriteString("Be specific and cite tendencies you actually observe. If the comments do not contain enough information, say so.\n\n")

	if len(history) > historyWindowTurns {
		history = history[len(history)-historyWindowTurns:]
	}
	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString("Viewer comments:\n")
	for i, c := range comments {
		text := truncateRunes(c.Text, answerCommentMaxChars)
		fmt.Fprintf(&b, "%d. [%s, sentiment %.1f] %s\n", i+1, c.Category, c.SentimentScore, text)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n", question)

	raw, err := u.generativeModel.Generate(ctx, b.String(), 2048, 0.4)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}
	answer := strings.TrimSpace(raw)

	related := make([]string, 0, relatedCommentsMax)
	for _, c := range comments {
		if len(related) == relatedCommentsMax {
			break
		}
		related = append(related, c.YouTubeCommentID)
	}

	return &model.ChatAnswer{
		Answer:            answer,
		Confidence:        estimateConfidence(answer, len(comments)),
		RelatedCommentIDs: related,
	}, nil
}

var hedgingPhrases = []string{
	"not enough information",
	"cannot determine",
	"can't determine",
	"unclear",
	"i'm not sure",
	"hard to say",
}

// estimateConfidence scores the answer by evidence volume and hedging
// language. A thin comment base caps confidence at 0.5; a hedged answer over
// a larger base gets 0.6; otherwise 0.8.
func estimateConfidence(answer string, commentCount int) float64 {
	if commentCount < 5 {
		return 0.5
	}
	lower := strings.ToLower(answer)
	for _, phrase := range hedgingPhrases {
		if strings.Contains(lower, phrase) {
			return 0.6
		}
	}
	return 0.8
}

func (u *AnalysisUsecase) GenerateReplyText(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a friendly, professional reply a YouTube creator could post to answer this "+
			"recurring viewer question. Keep it under 100 words, no hashtags, no emoji spam.\n\n"+
			"Question: %s", question)

	raw, err := u.generativeModel.Generate(ctx, prompt, 512, 0.7)
	if err != nil {
		return "", fmt.Errorf("reply generation failed: %w", err)
	}
	return strings.TrimSpace(stripCodeFence(raw)), nil
}
