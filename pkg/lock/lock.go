// Package lock 提供按 key 串行化的互斥锁：进程内实现与基于 Redis SETNX 的分布式实现
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLockTimeout 在 context 结束前未能获得锁
var ErrLockTimeout = errors.New("lock: acquire timed out")

// Locker 按 key 加锁，返回的 unlock 必须调用且只调用一次
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Acquire 获取锁，timeout 大于 0 时限制等待时间
func Acquire(ctx context.Context, l Locker, key string, timeout time.Duration) (func(), error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return l.Lock(ctx, key)
}

type entry struct {
	ch   chan struct{}
	refs int
}

// KeyedMutex 进程内按 key 互斥，不同 key 之间互不阻塞；无人持有的 key 会被回收
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// NewKeyedMutex 创建进程内锁
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Lock 获取 key 对应的锁，ctx 结束时放弃等待
func (m *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(key, e)
		return nil, errors.Join(ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			m.release(key, e)
		})
	}, nil
}

func (m *KeyedMutex) release(key string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.locks, key)
	}
}

// Len 当前被持有或等待中的 key 数量
func (m *KeyedMutex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
