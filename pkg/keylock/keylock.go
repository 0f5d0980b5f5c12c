// Package keylock 提供按Key串行化的互斥锁
//
// 使用场景：同一本图书的借出、归还、修改、删除必须串行执行，
// 不同图书之间互不阻塞。
//
//	unlock, err := locker.Lock(ctx, "book:1")
//	if err != nil {
//	    return err
//	}
//	defer unlock()
package keylock

import (
	"context"
	"sync"
	"time"
)

// Locker 按Key加锁
// 单进程部署使用 MemoryLocker，多实例部署使用Redis实现（见 persistence/redis.Locker）
type Locker interface {
	// Lock 阻塞直到获得锁或ctx结束，返回的unlock必须调用且只调用一次
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// MemoryLocker 进程内Key锁
// 每个Key对应一个容量为1的channel，引用计数归零后回收，避免map无限增长
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker 创建进程内Key锁
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*entry)}
}

// Lock 获取Key锁
func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *MemoryLocker) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Size 当前持有或等待中的Key数量（测试用）
func (l *MemoryLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// timeoutLocker 为每次加锁附加最长等待时间
type timeoutLocker struct {
	next    Locker
	timeout time.Duration
}

// WithWaitTimeout 包装Locker，等待超过timeout返回context.DeadlineExceeded
// timeout<=0时原样返回
func WithWaitTimeout(l Locker, timeout time.Duration) Locker {
	if timeout <= 0 {
		return l
	}
	return &timeoutLocker{next: l, timeout: timeout}
}

func (l *timeoutLocker) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.next.Lock(ctx, key)
}
