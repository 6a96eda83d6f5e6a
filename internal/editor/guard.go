package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"supportraise/internal/domain"
)

// SaveGuard allows at most one in-flight save per key. Acquire returns
// domain.ErrDuplicateOperation when the key is already held.
type SaveGuard interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// MemoryGuard is a process-local SaveGuard.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]struct{})}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(context.Context) error, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return nil, domain.ErrDuplicateOperation
	}
	g.held[key] = struct{}{}
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
		return nil
	}, nil
}

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisGuard shares the save guard across API instances using SET NX with a
// TTL, so a crashed holder cannot block a record forever.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{client: client, ttl: ttl, prefix: "partner-save:"}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	redisKey := g.prefix + key
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, redisKey, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: acquire save guard: %v", domain.ErrRemoteUnavailable, err)
	}
	if !ok {
		return nil, domain.ErrDuplicateOperation
	}
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return releaseScript.Run(ctx, g.client, []string{redisKey}, token).Err()
	}, nil
}

var (
	_ SaveGuard = (*MemoryGuard)(nil)
	_ SaveGuard = (*RedisGuard)(nil)
)
