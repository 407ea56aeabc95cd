package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// demandHashKey is the Redis hash holding live per-bucket demand counts.
// The booking intake increments a field whenever an order is confirmed
// for a time-preference bucket; availability quoting reads the whole
// hash.
const demandHashKey = "dispatch:demand:buckets"

// RedisDemandCounter tracks active-order demand per availability bucket
// in Redis, so quoting reflects bookings the moment they land instead of
// waiting for the next database aggregation.
type RedisDemandCounter struct {
	client *redis.Client
}

func NewRedisDemandCounter(client *redis.Client) *RedisDemandCounter {
	return &RedisDemandCounter{client: client}
}

// BucketCounts returns current demand keyed by bucket name.
func (r *RedisDemandCounter) BucketCounts(ctx context.Context) (map[string]int, error) {
	fields, err := r.client.HGetAll(ctx, demandHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("demand counter: read buckets: %w", err)
	}

	out := make(map[string]int, len(fields))
	for bucket, raw := range fields {
		var n int
		if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
			return nil, fmt.Errorf("demand counter: bucket %q has non-numeric count %q", bucket, raw)
		}
		out[bucket] = n
	}

	return out, nil
}

// Increment bumps a bucket's demand by one. Called by the booking intake
// when an order is confirmed.
func (r *RedisDemandCounter) Increment(ctx context.Context, bucket string) error {
	if bucket == "" {
		return fmt.Errorf("demand counter: bucket name must not be empty")
	}

	if err := r.client.HIncrBy(ctx, demandHashKey, bucket, 1).Err(); err != nil {
		return fmt.Errorf("demand counter: increment %q: %w", bucket, err)
	}
	return nil
}

// decrementScript floors the counter at zero inside Redis, so concurrent
// increments cannot be clobbered by a decrement racing the reset.
var decrementScript = redis.NewScript(`
local v = redis.call('HGET', KEYS[1], ARGV[1])
if v and tonumber(v) > 0 then
	return redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
end
return 0
`)

// Decrement releases one unit of demand, floored at zero, when an order
// completes or is cancelled.
func (r *RedisDemandCounter) Decrement(ctx context.Context, bucket string) error {
	if bucket == "" {
		return fmt.Errorf("demand counter: bucket name must not be empty")
	}

	if err := decrementScript.Run(ctx, r.client, []string{demandHashKey}, bucket).Err(); err != nil {
		return fmt.Errorf("demand counter: decrement %q: %w", bucket, err)
	}
	return nil
}
