package model

// Comment categories produced by the classifier.
const (
	CategoryQuestion   = "question"
	CategoryPraise     = "praise"
	CategoryComplaint  = "complaint"
	CategorySpam       = "spam"
	CategorySuggestion = "suggestion"
	CategoryNeutral    = "neutral"
)

// Comment is one YouTube comment, keyed by the YouTube comment id for idempotent
// upsert across re-syncs. Analysis fields stay zero until the classifier has run
// (two-phase write: raw insert first, labels patched in later).
type Comment struct {
	YouTubeCommentID string `bson:"_id" json:"youtubeCommentId"`
	VideoID          string `bson:"videoId" json:"videoId"`
	UserID           string `bson:"userId" json:"userId"`
	Author           string `bson:"author" json:"author"`
	AuthorChannelID  string `bson:"authorChannelId,omitempty" json:"authorChannelId,omitempty"`
	Text             string `bson:"text" json:"text"`
	LikeCount        int    `bson:"likeCount" json:"likeCount"`
	ReplyCount       int    `bson:"replyCount" json:"replyCount"`
	PublishedAt      string `bson:"publishedAt" json:"publishedAt"`

	Analyzed          bool    `bson:"analyzed" json:"analyzed"`
	Category          string  `bson:"category,omitempty" json:"category,omitempty"`
	SentimentScore    float64 `bson:"sentimentScore" json:"sentimentScore"`
	SentimentLabel    string  `bson:"sentimentLabel,omitempty" json:"sentimentLabel,omitempty"`
	ToxicityScore     float64 `bson:"toxicityScore" json:"toxicityScore"`
	ExtractedQuestion string  `bson:"extractedQuestion,omitempty" json:"extractedQuestion,omitempty"`
}

// CommentAnalysis is one classifier label for a single comment.
type CommentAnalysis struct {
	CommentID         string  `json:"commentId"`
	Category          string  `json:"category"`
	SentimentScore    float64 `json:"sentimentScore"`
	SentimentLabel    string  `json:"sentimentLabel"`
	ToxicityScore     float64 `json:"toxicityScore"`
	ExtractedQuestion string  `json:"extractedQuestion,omitempty"`
	Error             bool    `json:"error"`
}
