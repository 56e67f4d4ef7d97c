package model

import "time"

// VideoStats holds aggregate analysis results computed at the end of a sync.
type VideoStats struct {
	TotalComments  int            `bson:"totalComments" json:"totalComments"`
	CategoryCounts map[string]int `bson:"categoryCounts" json:"categoryCounts"`
	AvgSentiment   float64        `bson:"avgSentiment" json:"avgSentiment"`
}

// Video is one analyzed YouTube video, keyed by the YouTube video id so that
// re-analysis of the same video upserts instead of duplicating.
type Video struct {
	YouTubeVideoID string     `bson:"_id" json:"youtubeVideoId"`
	UserID         string     `bson:"userId" json:"userId"`
	Title          string     `bson:"title" json:"title"`
	Description    string     `bson:"description" json:"description"`
	ThumbnailURL   string     `bson:"thumbnailUrl" json:"thumbnailUrl"`
	ChannelName    string     `bson:"channelName" json:"channelName"`
	ViewCount      int64      `bson:"viewCount" json:"viewCount"`
	LikeCount      int64      `bson:"likeCount" json:"likeCount"`
	CommentCount   int64      `bson:"commentCount" json:"commentCount"`
	PublishedAt    string     `bson:"publishedAt" json:"publishedAt"`
	Duration       string     `bson:"duration" json:"duration"`
	SyncStatus     string     `bson:"syncStatus" json:"syncStatus"`
	SyncProgress   int        `bson:"syncProgress" json:"syncProgress"`
	LastSyncedAt   *time.Time `bson:"lastSyncedAt,omitempty" json:"lastSyncedAt,omitempty"`
	Stats          VideoStats `bson:"stats" json:"stats"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
}

// VideoMetadata mirrors the fields fetched from the YouTube Data API.
type VideoMetadata struct {
	YouTubeVideoID string `json:"youtubeVideoId"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ThumbnailURL   string `json:"thumbnailUrl"`
	ChannelName    string `json:"channelName"`
	ViewCount      int64  `json:"viewCount"`
	LikeCount      int64  `json:"likeCount"`
	CommentCount   int64  `json:"commentCount"`
	PublishedAt    string `json:"publishedAt"`
	Duration       string `json:"duration"`
}
