package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"pdf-insight-nexus/internal/logger"

	"github.com/redis/go-redis/v9"
)

// EmbedCache is a redis-backed cache of embedding vectors keyed by the
// content hash of (model, text). A nil cache or nil client is a no-op, so
// the service works unchanged without redis.
type EmbedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewEmbedCache(rdb *redis.Client, ttl time.Duration) *EmbedCache {
	if rdb == nil {
		return nil
	}
	return &EmbedCache{rdb: rdb, ttl: ttl}
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return "embed:" + hex.EncodeToString(sum[:])
}

// Get returns the cached vector for the text, if present.
func (c *EmbedCache) Get(ctx context.Context, model, text string) ([]float32, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(model, text)).Bytes()
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil || len(vec) == 0 {
		return nil, false
	}
	return vec, true
}

// Set stores the vector; cache write failures are logged and ignored.
func (c *EmbedCache) Set(ctx context.Context, model, text string, vec []float32) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(model, text), raw, c.ttl).Err(); err != nil {
		logger.Debug("Embedding cache write failed", "error", err)
	}
}
