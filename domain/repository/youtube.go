package repository

import (
	"context"

	"lently/domain/model"
)

// IYouTube is the narrow contract over the YouTube Data API used by the sync
// pipeline and the reply poster.
type IYouTube interface {
	// ExtractVideoID parses a canonical 11 character video id out of any
	// supported YouTube URL form. Returns model.ErrInvalidSourceReference
	// when no valid id can be extracted.
	ExtractVideoID(url string) (string, error)

	// GetVideoMetadata returns nil (without error) when the video does not exist.
	GetVideoMetadata(ctx context.Context, videoID string) (*model.VideoMetadata, error)

	// GetAllComments paginates through every top-level comment of a video.
	// Videos with comments disabled yield an empty slice, not an error.
	GetAllComments(ctx context.Context, videoID string, maxComments int) ([]model.Comment, error)

	// PostCommentReply posts a reply under a comment using the user's stored
	// OAuth credentials and returns the new YouTube comment id.
	PostCommentReply(ctx context.Context, userID, parentCommentID, text string) (string, error)
}
