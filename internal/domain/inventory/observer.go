package inventory

import (
	"context"
	"sync"
)

// Observer 库存变化观察者
// StockChanged在库存变化已经提交之后调用，观察者的失败不影响库存命令
type Observer interface {
	StockChanged(ctx context.Context, item *Item)
}

// ObserverFunc 函数适配器
type ObserverFunc func(ctx context.Context, item *Item)

func (f ObserverFunc) StockChanged(ctx context.Context, item *Item) {
	f(ctx, item)
}

// Notifier 库存变化通知中心，并发安全
type Notifier struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewNotifier 创建通知中心
func NewNotifier(observers ...Observer) *Notifier {
	return &Notifier{observers: observers}
}

// Attach 注册观察者
func (n *Notifier) Attach(o Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, o)
}

// Detach 移除观察者，按接口值比较，o必须是可比较类型（如指针），传入ObserverFunc会panic
func (n *Notifier) Detach(o Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.observers[:0]
	for _, existing := range n.observers {
		if existing != o {
			kept = append(kept, existing)
		}
	}
	n.observers = kept
}

// Notify 依次通知所有观察者，每个观察者拿到独立副本
func (n *Notifier) Notify(ctx context.Context, item *Item) {
	n.mu.RLock()
	observers := make([]Observer, len(n.observers))
	copy(observers, n.observers)
	n.mu.RUnlock()

	for _, o := range observers {
		o.StockChanged(ctx, item.Clone())
	}
}
