package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lently/infrastructure/cache"
)

func TestNormalizeQuestion(t *testing.T) {
	assert.Equal(t, "what do people love?", cache.NormalizeQuestion("  What do people LOVE?  "))
	assert.Equal(t, "", cache.NormalizeQuestion("   "))
}

// Case and whitespace variants of the same question must hash to the same key.
func TestCacheKey_NormalizationInsensitive(t *testing.T) {
	a := cache.CacheKey("dQw4w9WgXcQ", "What do people love?")
	b := cache.CacheKey("dQw4w9WgXcQ", "  what do people love?  ")
	assert.Equal(t, a, b)
}

func TestCacheKey_ScopedPerVideo(t *testing.T) {
	a := cache.CacheKey("videoA000001", "same question")
	b := cache.CacheKey("videoB000002", "same question")
	assert.NotEqual(t, a, b)
}

// A nil Redis client degrades to cache misses rather than errors.
func TestAnswerCache_NilClientFailOpen(t *testing.T) {
	c := cache.NewAnswerCache(nil)
	got, err := c.Get(context.Background(), "video", "question")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, c.ClearVideo(context.Background(), "video"))
}
