package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"
)

// MinExplainChars is the shortest trimmed selection that can be explained.
const MinExplainChars = 5

// ExplainCache stores finished explanations. A miss returns ok == false with a nil error.
type ExplainCache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type RedisExplainCache struct {
	client *redis.Client
}

func NewRedisExplainCache(client *redis.Client) *RedisExplainCache {
	return &RedisExplainCache{client: client}
}

func (c *RedisExplainCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisExplainCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

type ExplainService struct {
	generator Generator
	cache     ExplainCache
	ttl       time.Duration
}

// NewExplainService builds the service; cache may be nil.
func NewExplainService(generator Generator, cache ExplainCache, ttl time.Duration) *ExplainService {
	return &ExplainService{generator: generator, cache: cache, ttl: ttl}
}

// Explain returns a plain-language explanation of selected, optionally framed by contextSummary.
func (s *ExplainService) Explain(ctx context.Context, selected, contextSummary string) (string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(selected)) < MinExplainChars {
		return "", newError(ErrContentTooShort, "Text too short to explain.", nil)
	}

	key := explainCacheKey(selected, contextSummary)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("explain cache get: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	explanation, err := s.generator.GenerateText(ctx, BuildExplainPrompt(selected, contextSummary))
	if err != nil {
		if !errors.Is(err, ErrProvider) {
			err = newError(ErrProvider, "Explanation failed", err)
		}
		return "", err
	}
	if strings.TrimSpace(explanation) == "" {
		return "", newError(ErrProvider, "The AI returned an empty explanation", nil)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, explanation, s.ttl); err != nil {
			log.Printf("explain cache set: %v", err)
		}
	}
	return explanation, nil
}

func explainCacheKey(selected, contextSummary string) string {
	sum := sha256.Sum256([]byte(contextSummary + "\x00" + selected))
	return "explain:" + hex.EncodeToString(sum[:])
}
