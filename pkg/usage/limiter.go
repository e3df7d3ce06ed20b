package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Quota describes an account's message budget for the current day.
type Quota struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

// Limiter counts messages per account per UTC day in redis. A nil redis
// client or a zero limit disables the cap; the limiter is deliberately
// fail-open so a redis outage cannot take down the messaging flow.
type Limiter struct {
	rdb   *redis.Client
	limit int
}

func NewLimiter(rdb *redis.Client, dailyLimit int) *Limiter {
	return &Limiter{rdb: rdb, limit: dailyLimit}
}

// Allow increments the account's counter for today and reports whether the
// message may proceed.
func (l *Limiter) Allow(ctx context.Context, accountId uuid.UUID) (bool, *Quota, error) {
	if l.rdb == nil || l.limit <= 0 {
		return true, nil, nil
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("usage:messages:%s:%s", accountId.String(), now.Format("2006-01-02"))
	midnight := now.Truncate(24 * time.Hour).Add(24 * time.Hour)

	used, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, nil, err
	}
	if used == 1 {
		l.rdb.ExpireAt(ctx, key, midnight)
	}

	quota := &Quota{
		Limit:      l.limit,
		Used:       int(used),
		ResetAfter: midnight,
	}

	return used <= int64(l.limit), quota, nil
}
