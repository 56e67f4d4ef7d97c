package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lently/domain/model"
	"lently/domain/repository"
	"lently/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// AnswerCache stores AI answers in Redis, keyed per video by a hash of the
// normalized question. Entries carry no TTL: only ClearVideo removes them.
// All operations are fail-open; a broken Redis never fails the chat path.
type AnswerCache struct {
	client *redis.Client
}

func NewAnswerCache(client *redis.Client) repository.IAnswerCache {
	return &AnswerCache{client: client}
}

// NormalizeQuestion lowers and trims the question so case and surrounding
// whitespace do not fragment the cache.
func NormalizeQuestion(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// CacheKey builds the per-video Redis key for a question.
func CacheKey(videoID, question string) string {
	sum := md5.Sum([]byte(NormalizeQuestion(question)))
	return fmt.Sprintf("answercache:%s:%s", videoID, hex.EncodeToString(sum[:]))
}

func (c *AnswerCache) Get(ctx context.Context, videoID, question string) (*model.CachedAnswer, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, CacheKey(videoID, question)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logger.GetLogger().WithField("error", err).Warn("Answer cache read failed")
		return nil, nil
	}
	var answer model.CachedAnswer
	if err := json.Unmarshal(raw, &answer); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Answer cache entry unreadable")
		return nil, nil
	}
	return &answer, nil
}

func (c *AnswerCache) Put(ctx context.Context, videoID, question string, answer model.CachedAnswer) error {
	if c.client == nil {
		return nil
	}
	raw, err := json.Marshal(answer)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, CacheKey(videoID, question), raw, 0).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Answer cache write failed")
	}
	return nil
}

// ClearVideo scans and deletes every cached answer for a video.
func (c *AnswerCache) ClearVideo(ctx context.Context, videoID string) error {
	if c.client == nil {
		return nil
	}
	pattern := fmt.Sprintf("answercache:%s:*", videoID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Answer cache delete failed")
		}
	}
	return iter.Err()
}
