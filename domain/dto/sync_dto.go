package dto

import "lently/domain/model"

// AnalyzeVideoRequest starts a new sync job for a video URL.
type AnalyzeVideoRequest struct {
	YouTubeURL string `json:"youtubeUrl" binding:"required"`
}

// AnalyzeVideoResponse returns the identifiers needed to poll progress.
type AnalyzeVideoResponse struct {
	JobID   string `json:"jobId"`
	VideoID string `json:"videoId"`
}

// SyncJobStatusResponse is the polling view of a job.
type SyncJobStatusResponse struct {
	JobID             string `json:"jobId"`
	VideoID           string `json:"videoId"`
	Status            string `json:"status"`
	Progress          int    `json:"progress"`
	TotalComments     int    `json:"totalComments"`
	ProcessedComments int    `json:"processedComments"`
	Error             string `json:"error,omitempty"`
}

// VideoListResponse wraps a user's analyzed videos.
type VideoListResponse struct {
	Videos []model.Video `json:"videos"`
	Total  int           `json:"total"`
}

// CommentListResponse wraps a video's comments.
type CommentListResponse struct {
	Comments []model.Comment `json:"comments"`
	Total    int             `json:"total"`
}
