package inventorytest

import (
	"context"
	"sync"
)

// Transactor 用互斥锁代替数据库事务：同一时刻只有一个fn在执行，
// 相当于所有事务都对同一行加了FOR UPDATE
type Transactor struct {
	mu    sync.Mutex
	calls int
}

func (t *Transactor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	return fn(ctx)
}

// CallCount 已开始的事务数
func (t *Transactor) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
