package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var dest map[string]int
	assert.ErrorIs(t, c.Get(ctx, "k", &dest), ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.DeletePattern(ctx, "*"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "quiz:7:analytics", QuizAnalyticsKey(7))
	assert.Equal(t, "quiz:7:*", QuizKeyPattern(7))
}

func TestRedisCachePrefix(t *testing.T) {
	c := &redisCache{prefix: DefaultPrefix}
	assert.Equal(t, "quiz-service:quiz:1:analytics", c.key(QuizAnalyticsKey(1)))
}
