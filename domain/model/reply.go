package model

import "time"

// Reply posting statuses.
const (
	ReplyStatusDraft   = "draft"
	ReplyStatusPosting = "posting"
	ReplyStatusPosted  = "posted"
	ReplyStatusFailed  = "failed"
)

// Reply is an AI-generated answer to a recurring viewer question, reusable
// across videos. TimesAsked counts how often the underlying question came up;
// UseCount counts how often the creator actually used the reply.
type Reply struct {
	ReplyID          string     `bson:"_id" json:"replyId"`
	UserID           string     `bson:"userId" json:"userId"`
	Question         string     `bson:"question" json:"question"`
	ReplyText        string     `bson:"replyText" json:"replyText"`
	TimesAsked       int        `bson:"timesAsked" json:"timesAsked"`
	UseCount         int        `bson:"useCount" json:"useCount"`
	VideoIDs         []string   `bson:"videoIds" json:"videoIds"`
	Status           string     `bson:"status,omitempty" json:"status,omitempty"`
	YouTubeCommentID string     `bson:"youtubeCommentId,omitempty" json:"youtubeCommentId,omitempty"`
	Attempts         int        `bson:"attempts" json:"attempts"`
	LastError        string     `bson:"lastError,omitempty" json:"lastError,omitempty"`
	PostedAt         *time.Time `bson:"postedAt,omitempty" json:"postedAt,omitempty"`
	LastUsedAt       *time.Time `bson:"lastUsedAt,omitempty" json:"lastUsedAt,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
}

// CommonQuestion is a group of similar viewer questions extracted from a
// video's analyzed comments.
type CommonQuestion struct {
	Question   string   `json:"question"`
	Count      int      `json:"count"`
	CommentIDs []string `json:"commentIds"`
}
