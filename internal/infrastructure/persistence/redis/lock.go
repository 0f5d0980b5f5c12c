package redis

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/keylock"
)

var _ keylock.Locker = (*Locker)(nil)

//go:embed unlock.lua
var unlockLua string

// unlockScript 首次调用EVALSHA，脚本未缓存时自动回退EVAL
var unlockScript = redis.NewScript(unlockLua)

// Locker Redis分布式Key锁
// 设计说明：
// 1. 加锁：SET lock:{key} {token} NX PX {ttl}，token为UUID，标识持有者
// 2. 解锁：Lua脚本比较token后DEL，避免误删其他实例的锁
// 3. TTL兜底：进程崩溃后锁自动过期
// 4. 未抢到锁时按RetryInterval轮询，直到ctx结束
// 5. Redis连续报错时熔断，加锁直接返回circuitbreaker.ErrOpenState
//
// Key设计：lock:book:{id}、lock:user:name:{name}
type Locker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	breaker       *circuitbreaker.CircuitBreaker
}

// NewLocker 创建Redis分布式锁
func NewLocker(client *redis.Client, cfg config.LockConfig) *Locker {
	retry := cfg.RetryInterval
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	return &Locker{
		client:        client,
		ttl:           cfg.TTL,
		retryInterval: retry,
		breaker: circuitbreaker.New("redis-lock", circuitbreaker.Config{
			Timeout: cfg.BreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			// 等锁超时、请求取消不是Redis故障
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
			},
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				slog.Warn("熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// BreakerState Redis锁熔断器当前状态
func (l *Locker) BreakerState() circuitbreaker.State {
	return l.breaker.State()
}

// Lock 获取锁，返回的unlock释放锁（重复调用无副作用）
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := "lock:" + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		var ok bool
		err := l.breaker.Execute(func() error {
			var err error
			ok, err = l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("获取锁%s失败: %w", lockKey, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// 加锁的ctx可能已结束，释放使用独立的超时
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := unlockScript.Run(ctx, l.client, []string{lockKey}, token).Err(); err != nil {
				slog.Warn("释放锁失败，等待TTL过期", "key", lockKey, "error", err)
			}
		})
	}, nil
}
