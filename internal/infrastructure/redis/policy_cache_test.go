package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/internal/domain/entity"
	"github.com/waterfire-source/Mycalinks-sub015/internal/infrastructure/redis"
)

// fakeRedis implementa solo Get/Set/Del sobre un mapa; el resto de Cmdable queda sin implementar.
type fakeRedis struct {
	goredis.Cmdable
	data    map[string]string
	ttl     time.Duration
	failGet bool
}

func (f *fakeRedis) Get(ctx context.Context, key string) *goredis.StringCmd {
	cmd := goredis.NewStringCmd(ctx, "get", key)
	if f.failGet {
		cmd.SetErr(errors.New("connection refused"))
		return cmd
	}
	v, ok := f.data[key]
	if !ok {
		cmd.SetErr(goredis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx, "set", key)
	f.data[key] = string(value.([]byte))
	f.ttl = ttl
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	cmd := goredis.NewIntCmd(ctx, "del")
	for _, k := range keys {
		delete(f.data, k)
	}
	return cmd
}

type countingSource struct {
	calls  int
	policy entity.LedgerPolicy
}

func (s *countingSource) Policy(context.Context, string) (entity.LedgerPolicy, error) {
	s.calls++
	return s.policy, nil
}

func TestPolicyCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{data: map[string]string{}}
	src := &countingSource{policy: entity.LedgerPolicy{KeepRule: entity.KeepAverage, Order: entity.OrderLowestCostFirst}}
	cache := redis.NewPolicyCache(fake, src, time.Minute, nil)

	p, err := cache.Policy(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, src.policy, p)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, time.Minute, fake.ttl)

	p, err = cache.Policy(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, src.policy, p)
	assert.Equal(t, 1, src.calls)

	require.NoError(t, cache.Invalidate(ctx, "s1"))
	_, err = cache.Policy(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestPolicyCache_RedisDownFallsThrough(t *testing.T) {
	fake := &fakeRedis{data: map[string]string{}, failGet: true}
	src := &countingSource{policy: entity.DefaultLedgerPolicy()}
	cache := redis.NewPolicyCache(fake, src, time.Minute, nil)

	p, err := cache.Policy(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultLedgerPolicy(), p)
	assert.Equal(t, 1, src.calls)
}

func TestPolicyCache_IgnoresCorruptEntry(t *testing.T) {
	fake := &fakeRedis{data: map[string]string{"ledger-policy:s1": `{"keep_rule":"weird"}`}}
	src := &countingSource{policy: entity.DefaultLedgerPolicy()}
	cache := redis.NewPolicyCache(fake, src, time.Minute, nil)

	p, err := cache.Policy(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultLedgerPolicy(), p)
	assert.Equal(t, 1, src.calls)
}
