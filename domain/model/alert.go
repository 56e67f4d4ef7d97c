package model

import "time"

// Alert types.
const (
	AlertTypeCommentSpike  = "comment_spike"
	AlertTypeSentimentDrop = "sentiment_drop"
	AlertTypeToxicDetected = "toxic_detected"
	AlertTypeViralComment  = "viral_comment"
)

// Alert severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert is a notification produced by the automatic checks run after a sync.
// At most one alert of a given (user, video, type) is created within any
// trailing 24 hour window.
type Alert struct {
	AlertID   string                 `bson:"_id" json:"alertId"`
	UserID    string                 `bson:"userId" json:"userId"`
	VideoID   string                 `bson:"videoId,omitempty" json:"videoId,omitempty"`
	CommentID string                 `bson:"commentId,omitempty" json:"commentId,omitempty"`
	Type      string                 `bson:"type" json:"type"`
	Severity  string                 `bson:"severity" json:"severity"`
	Title     string                 `bson:"title" json:"title"`
	Message   string                 `bson:"message" json:"message"`
	Data      map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`
	IsRead    bool                   `bson:"isRead" json:"isRead"`
	ReadAt    *time.Time             `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}
