// Package stats counts issued loading plans per day in Redis.
package stats

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "loadplan:issued:"

// retention keeps daily counters around long enough for weekly reporting.
const retention = 8 * 24 * time.Hour

// Counter increments and reads daily issue counts. A nil *Counter is valid
// and counts nothing.
type Counter struct {
	rdb *redis.Client
	loc *time.Location
}

func NewCounter(rdb *redis.Client, loc *time.Location) *Counter {
	if loc == nil {
		loc = time.Local
	}
	return &Counter{rdb: rdb, loc: loc}
}

func (c *Counter) key(day time.Time) string {
	return keyPrefix + day.In(c.loc).Format("2006-01-02")
}

// Incr records one issued plan on the day of at.
func (c *Counter) Incr(ctx context.Context, at time.Time) error {
	if c == nil {
		return nil
	}
	key := c.key(at)
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, retention)
	_, err := pipe.Exec(ctx)
	return err
}

// Count returns the number of plans issued on the day of at.
func (c *Counter) Count(ctx context.Context, at time.Time) (int64, error) {
	if c == nil {
		return 0, nil
	}
	n, err := c.rdb.Get(ctx, c.key(at)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}
