// Package purchasetest 内存版采购单仓储
package purchasetest

import (
	"context"
	"sync"

	"github.com/xiebiao/cafearoma/internal/domain/purchase"
)

type Repository struct {
	mu     sync.Mutex
	orders []purchase.Order

	// FailNext 非nil时下一次Create返回该错误
	FailNext error
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Create(ctx context.Context, order *purchase.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FailNext; err != nil {
		r.FailNext = nil
		return err
	}
	order.ID = uint(len(r.orders) + 1)
	r.orders = append(r.orders, *order)
	return nil
}

func (r *Repository) FindPendingBySKU(ctx context.Context, sku string) (*purchase.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].SKU == sku && r.orders[i].Status == purchase.StatusPending {
			o := r.orders[i]
			return &o, nil
		}
	}
	return nil, nil
}

// Orders 已保存的全部采购单
func (r *Repository) Orders() []purchase.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]purchase.Order(nil), r.orders...)
}

var _ purchase.Repository = (*Repository)(nil)
