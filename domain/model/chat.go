package model

import "time"

// Question intents recognized by the context selector. Anything the model
// returns outside this set collapses to IntentGeneral.
const (
	IntentComplaints    = "complaints"
	IntentQuestions     = "questions"
	IntentPraise        = "praise"
	IntentSuggestions   = "suggestions"
	IntentSpecificTopic = "specific_topic"
	IntentGeneral       = "general"
)

// CachedAnswer is a previously generated AI answer, keyed per video by the
// hash of the normalized question text.
type CachedAnswer struct {
	Question          string    `json:"question"`
	Answer            string    `json:"answer"`
	Confidence        float64   `json:"confidence"`
	RelatedCommentIDs []string  `json:"relatedCommentIds"`
	CachedAt          time.Time `json:"cachedAt"`
}

// ChatAnswer is the result of answering a question over a comment set.
type ChatAnswer struct {
	Answer            string   `json:"answer"`
	Confidence        float64  `json:"confidence"`
	RelatedCommentIDs []string `json:"relatedCommentIds"`
}

// ConversationTurn is one message in a chat conversation. Only the last three
// turns are fed back to the model as context.
type ConversationTurn struct {
	ConversationID string    `bson:"conversationId" json:"conversationId"`
	Role           string    `bson:"role" json:"role"`
	Content        string    `bson:"content" json:"content"`
	UserID         string    `bson:"userId" json:"userId"`
	VideoID        string    `bson:"videoId" json:"videoId"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}
