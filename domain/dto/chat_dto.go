package dto

// AskRequest asks a question about a video's comments.
type AskRequest struct {
	VideoID        string `json:"videoId" binding:"required"`
	Question       string `json:"question" binding:"required"`
	ConversationID string `json:"conversationId,omitempty"`
}

// AskResponse carries the AI answer. Cached reports whether the answer came
// from the answer cache without an inference call.
type AskResponse struct {
	Answer            string   `json:"answer"`
	Confidence        float64  `json:"confidence"`
	RelatedCommentIDs []string `json:"relatedCommentIds"`
	ConversationID    string   `json:"conversationId"`
	Cached            bool     `json:"cached"`
}

// SuggestedQuestionsResponse is the static starter list for the chat UI.
type SuggestedQuestionsResponse struct {
	Questions []string `json:"questions"`
}
