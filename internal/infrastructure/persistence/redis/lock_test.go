package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/circuitbreaker"
)

func newTestLocker(t *testing.T) (*Locker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLocker(client, config.LockConfig{
		TTL:           5 * time.Second,
		RetryInterval: 5 * time.Millisecond,
	}), mr
}

func TestLocker_LockUnlock(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "book:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:book:1"))

	// TTL兜底
	assert.Equal(t, 5*time.Second, mr.TTL("lock:book:1"))

	unlock()
	assert.False(t, mr.Exists("lock:book:1"))

	unlock() // 重复调用无副作用
}

func TestLocker_WaitTimeout(t *testing.T) {
	locker, _ := newTestLocker(t)

	unlock, err := locker.Lock(context.Background(), "book:1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "book:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	t.Run("不同Key互不影响", func(t *testing.T) {
		unlock2, err := locker.Lock(context.Background(), "book:2")
		require.NoError(t, err)
		unlock2()
	})
}

func TestLocker_DoesNotReleaseOthersLock(t *testing.T) {
	locker, mr := newTestLocker(t)

	unlock, err := locker.Lock(context.Background(), "book:1")
	require.NoError(t, err)

	// 模拟锁过期后被其他实例抢到
	mr.FastForward(6 * time.Second)
	require.NoError(t, mr.Set("lock:book:1", "other-token"))

	unlock()
	got, err := mr.Get("lock:book:1")
	require.NoError(t, err)
	assert.Equal(t, "other-token", got, "token不一致时不能删除")
}

func TestLocker_Serializes(t *testing.T) {
	locker, _ := newTestLocker(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		counter int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "book:1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			// 非原子的读-改-写，只有串行执行才能得到正确结果
			mu.Lock()
			v := counter
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			counter = v + 1
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, counter)
}

func TestLocker_CircuitBreaker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewLocker(client, config.LockConfig{
		TTL:             5 * time.Second,
		RetryInterval:   5 * time.Millisecond,
		BreakerFailures: 3,
		BreakerTimeout:  50 * time.Millisecond,
	})
	ctx := context.Background()

	// 模拟Redis故障
	mr.SetError("ERR simulated outage")
	for i := 0; i < 3; i++ {
		_, err := locker.Lock(ctx, "book:1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, circuitbreaker.ErrOpenState)
	}
	assert.Equal(t, circuitbreaker.StateOpen, locker.BreakerState())

	_, err := locker.Lock(ctx, "book:1")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState, "熔断后直接失败")

	t.Run("Redis恢复后半开探测成功", func(t *testing.T) {
		mr.SetError("")
		time.Sleep(60 * time.Millisecond)

		unlock, err := locker.Lock(ctx, "book:1")
		require.NoError(t, err)
		unlock()
		assert.Equal(t, circuitbreaker.StateClosed, locker.BreakerState())
	})

	t.Run("等锁超时不计入失败", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "book:2")
		require.NoError(t, err)
		defer unlock()

		for i := 0; i < 3; i++ {
			waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
			_, err := locker.Lock(waitCtx, "book:2")
			cancel()
			assert.ErrorIs(t, err, context.DeadlineExceeded)
		}
		assert.Equal(t, circuitbreaker.StateClosed, locker.BreakerState())
	})
}
