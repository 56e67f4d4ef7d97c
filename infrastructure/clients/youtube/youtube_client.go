package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client talks to the YouTube Data API v3. Read paths (metadata, comment
// threads) run on the API key; posting replies uses the owning user's stored
// OAuth credentials.
type Client struct {
	service     *youtube.Service
	oauthConfig *oauth2.Config
	tokenRepo   repository.IOAuthToken
}

// Config represents YouTube API configuration.
type Config struct {
	APIKey       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

var (
	videoURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
	}
	videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// NewYouTubeClient creates a new API-key backed YouTube client. tokenRepo may
// be nil when reply posting is not configured.
func NewYouTubeClient(ctx context.Context, config *Config, tokenRepo repository.IOAuthToken) (repository.IYouTube, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	service, err := youtube.NewService(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	var oauthConfig *oauth2.Config
	if config.ClientID != "" && config.ClientSecret != "" {
		oauthConfig = &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       []string{youtube.YoutubeForceSslScope},
			Endpoint:     google.Endpoint,
		}
	}

	return &Client{
		service:     service,
		oauthConfig: oauthConfig,
		tokenRepo:   tokenRepo,
	}, nil
}

// ExtractVideoID parses a canonical video id out of the supported URL forms:
//
//	https://www.youtube.com/watch?v=VIDEO_ID
//	https://youtu.be/VIDEO_ID
//	https://www.youtube.com/embed/VIDEO_ID
//	https://www.youtube.com/v/VIDEO_ID
//
// A bare 11 character id is also accepted.
func (c *Client) ExtractVideoID(url string) (string, error) {
	if videoIDPattern.MatchString(url) {
		return url, nil
	}
	for _, pattern := range videoURLPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			if videoIDPattern.MatchString(m[1]) {
				return m[1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", model.ErrInvalidSourceReference, url)
}

// GetVideoMetadata fetches snippet, statistics and contentDetails for a video.
// A missing video returns (nil, nil).
func (c *Client) GetVideoMetadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	response, err := c.service.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video metadata: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, nil
	}

	video := response.Items[0]
	metadata := &model.VideoMetadata{
		YouTubeVideoID: videoID,
		Title:          video.Snippet.Title,
		Description:    video.Snippet.Description,
		ChannelName:    video.Snippet.ChannelTitle,
		PublishedAt:    video.Snippet.PublishedAt,
	}
	if video.Snippet.Thumbnails != nil && video.Snippet.Thumbnails.High != nil {
		metadata.ThumbnailURL = video.Snippet.Thumbnails.High.Url
	}
	if video.Statistics != nil {
		metadata.ViewCount = int64(video.Statistics.ViewCount)
		metadata.LikeCount = int64(video.Statistics.LikeCount)
		metadata.CommentCount = int64(video.Statistics.CommentCount)
	}
	if video.ContentDetails != nil {
		metadata.Duration = video.ContentDetails.Duration
	}
	return metadata, nil
}

// GetAllComments pages through every top-level comment thread of a video,
// newest first. Videos with comments disabled yield an empty slice.
func (c *Client) GetAllComments(ctx context.Context, videoID string, maxComments int) ([]model.Comment, error) {
	var all []model.Comment
	pageToken := ""

	for {
		call := c.service.CommentThreads.
			List([]string{"snippet"}).
			VideoId(videoID).
			MaxResults(100).
			TextFormat("plainText").
			Order("time").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			if isCommentsDisabled(err) {
				logger.GetLogger().WithField("videoId", videoID).Info("Comments are disabled for video")
				return []model.Comment{}, nil
			}
			return nil, fmt.Errorf("failed to fetch comments: %w", err)
		}

		for _, item := range response.Items {
			topLevel := item.Snippet.TopLevelComment
			snippet := topLevel.Snippet
			comment := model.Comment{
				YouTubeCommentID: topLevel.Id,
				VideoID:          videoID,
				Author:           snippet.AuthorDisplayName,
				Text:             snippet.TextDisplay,
				LikeCount:        int(snippet.LikeCount),
				ReplyCount:       int(item.Snippet.TotalReplyCount),
				PublishedAt:      snippet.PublishedAt,
			}
			if snippet.AuthorChannelId != nil {
				comment.AuthorChannelID = snippet.AuthorChannelId.Value
			}
			all = append(all, comment)
		}

		if maxComments > 0 && len(all) >= maxComments {
			all = all[:maxComments]
			break
		}
		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"videoId": videoID,
		"count":   len(all),
	}).Info("Fetched comments for video")
	return all, nil
}

// PostCommentReply posts a reply under parentCommentID with the user's OAuth
// credentials, refreshing and re-persisting the token when needed.
func (c *Client) PostCommentReply(ctx context.Context, userID, parentCommentID, text string) (string, error) {
	if c.oauthConfig == nil || c.tokenRepo == nil {
		return "", fmt.Errorf("reply posting requires OAuth client credentials")
	}

	stored, err := c.tokenRepo.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("no YouTube credentials found for user: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    "Bearer",
	}
	if stored.TokenExpiry != nil {
		token.Expiry = *stored.TokenExpiry
	}

	source := c.oauthConfig.TokenSource(ctx, token)
	fresh, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh YouTube access token: %w", err)
	}
	if fresh.AccessToken != stored.AccessToken {
		now := time.Now().UTC()
		stored.AccessToken = fresh.AccessToken
		stored.TokenExpiry = &fresh.Expiry
		stored.LastRefreshed = &now
		if saveErr := c.tokenRepo.Save(ctx, stored); saveErr != nil {
			logger.GetLogger().WithField("error", saveErr).Warn("Failed to persist refreshed token")
		}
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return "", fmt.Errorf("failed to create authenticated YouTube service: %w", err)
	}

	response, err := service.Comments.Insert([]string{"snippet"}, &youtube.Comment{
		Snippet: &youtube.CommentSnippet{
			ParentId:     parentCommentID,
			TextOriginal: text,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to post reply: %w", err)
	}
	return response.Id, nil
}

func isCommentsDisabled(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code != 403 {
		return false
	}
	for _, e := range apiErr.Errors {
		if e.Reason == "commentsDisabled" {
			return true
		}
	}
	return false
}
