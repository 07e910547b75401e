package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const usedResetTokenPrefix = "reset:used:"

// ResetTokenLedger records consumed reset tokens so a link works only once
type ResetTokenLedger interface {
	// MarkUsed returns false when the token id was already consumed
	MarkUsed(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}

type redisResetTokenLedger struct {
	client *redis.Client
}

// NewResetTokenLedger stores consumed token ids in Redis until the token would have expired anyway
func NewResetTokenLedger(client *redis.Client) ResetTokenLedger {
	return &redisResetTokenLedger{client: client}
}

func (l *redisResetTokenLedger) MarkUsed(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	ok, err := l.client.SetNX(ctx, usedResetTokenPrefix+tokenID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record reset token use: %w", err)
	}
	return ok, nil
}
