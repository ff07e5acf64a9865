package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SarjuThakkar/TreehouseLibrary/internal/domain"
)

const keyPrefix = "patron_search:"

// PatronSearchCache implements repository.PatronSearchCache using Redis.
// The cache is advisory: every failure degrades to a miss so patron search
// keeps working when Redis is down.
type PatronSearchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewPatronSearchCache creates a Redis-backed patron search cache.
func NewPatronSearchCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *PatronSearchCache {
	return &PatronSearchCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(query string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(query))
}

// Get returns cached results for a query, and whether they were found.
func (c *PatronSearchCache) Get(ctx context.Context, query string) ([]domain.Patron, bool) {
	data, err := c.client.Get(ctx, cacheKey(query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "patron search cache read failed",
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var patrons []domain.Patron
	if err := json.Unmarshal(data, &patrons); err != nil {
		c.logger.WarnContext(ctx, "patron search cache entry corrupt",
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return patrons, true
}

// Set stores results for a query with the configured TTL.
func (c *PatronSearchCache) Set(ctx context.Context, query string, patrons []domain.Patron) {
	data, err := json.Marshal(patrons)
	if err != nil {
		c.logger.WarnContext(ctx, "patron search cache marshal failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, cacheKey(query), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "patron search cache write failed",
			slog.String("error", err.Error()),
		)
	}
}
