package dto

// GenerateReplyRequest asks for a professional reply draft for a question.
type GenerateReplyRequest struct {
	Question string `json:"question" binding:"required"`
	VideoID  string `json:"videoId,omitempty"`
}

// GenerateReplyResponse returns the saved reply.
type GenerateReplyResponse struct {
	ReplyID   string `json:"replyId"`
	ReplyText string `json:"replyText"`
}

// PostReplyRequest posts a saved reply under a YouTube comment.
type PostReplyRequest struct {
	ParentCommentID string `json:"parentCommentId" binding:"required"`
}
