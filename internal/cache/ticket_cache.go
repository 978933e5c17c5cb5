package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-tracker/internal/domain"
)

const keyPrefix = "ticket:"

// TicketCache is a read-through Redis cache for tickets keyed by code.
// Every method degrades to a no-op when Redis is unreachable; the store
// remains the source of truth.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTicketCache builds a cache around the shared Redis client.
func NewTicketCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *TicketCache {
	return &TicketCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached ticket for code, if present.
func (c *TicketCache) Get(ctx context.Context, code string) (*domain.Ticket, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, keyPrefix+code).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("ticket cache get failed", zap.String("code", code), zap.Error(err))
		}
		return nil, false
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		c.logger.Warn("ticket cache entry corrupt", zap.String("code", code), zap.Error(err))
		_ = c.client.Del(ctx, keyPrefix+code).Err()
		return nil, false
	}
	return &ticket, true
}

// Set stores the ticket under its code.
func (c *TicketCache) Set(ctx context.Context, ticket *domain.Ticket) {
	if c == nil || c.client == nil || ticket == nil {
		return
	}
	data, err := json.Marshal(ticket)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+ticket.Code, data, c.ttl).Err(); err != nil {
		c.logger.Debug("ticket cache set failed", zap.String("code", ticket.Code), zap.Error(err))
	}
}

// Invalidate drops the cached entry for code.
func (c *TicketCache) Invalidate(ctx context.Context, code string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+code).Err(); err != nil {
		c.logger.Debug("ticket cache invalidate failed", zap.String("code", code), zap.Error(err))
	}
}
