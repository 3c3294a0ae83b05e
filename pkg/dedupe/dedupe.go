package dedupe

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventDeduper tracks processor event ids that have been fully applied so
// redelivered webhooks can be short-circuited. The processor delivers
// at-least-once; ids are recorded only after processing succeeds, so a
// delivery that failed mid-flight stays eligible for redelivery.
type EventDeduper interface {
	// Applied reports whether eventID was already processed to completion.
	Applied(ctx context.Context, eventID string) (bool, error)

	// MarkApplied records eventID once its event has been fully processed.
	// Entries expire after the TTL; the processor's retry window is far
	// shorter.
	MarkApplied(ctx context.Context, eventID string) error
}

const (
	keyPrefix  = "webhook:event:"
	defaultTTL = 24 * time.Hour
)

type RedisDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDeduper(rdb *redis.Client) *RedisDeduper {
	return &RedisDeduper{rdb: rdb, ttl: defaultTTL}
}

func (d *RedisDeduper) Applied(ctx context.Context, eventID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, keyPrefix+eventID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *RedisDeduper) MarkApplied(ctx context.Context, eventID string) error {
	return d.rdb.Set(ctx, keyPrefix+eventID, 1, d.ttl).Err()
}

// MemoryDeduper is a process-local fallback for tests and single-instance
// development runs. Not suitable once deliveries fan out across replicas.
type MemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{
		seen: make(map[string]time.Time),
		ttl:  defaultTTL,
	}
}

func (d *MemoryDeduper) Applied(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiry, ok := d.seen[eventID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(d.seen, eventID)
		return false, nil
	}
	return true, nil
}

func (d *MemoryDeduper) MarkApplied(_ context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[eventID] = time.Now().Add(d.ttl)
	return nil
}
