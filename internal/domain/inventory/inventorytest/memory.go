// Package inventorytest 提供内存版库存仓储，供命令、用例和handler测试使用
package inventorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
)

// Repository 内存仓储，读写都拷贝，调用方拿到的指针不会影响存储
type Repository struct {
	mu     sync.Mutex
	items  map[string]*inventory.Item
	nextID uint

	// FailNext 非nil时下一次写操作返回该错误（模拟数据库故障）
	FailNext error
}

// NewRepository 创建内存仓储并写入初始商品
func NewRepository(items ...*inventory.Item) *Repository {
	r := &Repository{items: make(map[string]*inventory.Item)}
	for _, item := range items {
		r.nextID++
		c := item.Clone()
		c.ID = r.nextID
		r.items[c.SKU] = c
	}
	return r
}

func (r *Repository) FindBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[sku]
	if !ok {
		return nil, inventory.ErrItemNotFound
	}
	return item.Clone(), nil
}

// LockBySKU 内存实现没有行锁，由调用方的事务替身保证串行
func (r *Repository) LockBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	return r.FindBySKU(ctx, sku)
}

func (r *Repository) Save(ctx context.Context, item *inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return err
	}
	existing, ok := r.items[item.SKU]
	if !ok {
		return inventory.ErrItemNotFound
	}
	c := item.Clone()
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	r.items[c.SKU] = c
	return nil
}

func (r *Repository) Create(ctx context.Context, item *inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.items[item.SKU]; ok {
		return inventory.ErrSKUDuplicate
	}
	r.nextID++
	item.ID = r.nextID
	r.items[item.SKU] = item.Clone()
	return nil
}

func (r *Repository) Delete(ctx context.Context, sku string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return err
	}
	if _, ok := r.items[sku]; !ok {
		return inventory.ErrItemNotFound
	}
	delete(r.items, sku)
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*inventory.Item, error) {
	return r.list(func(*inventory.Item) bool { return true }), nil
}

func (r *Repository) ListLowStock(ctx context.Context) ([]*inventory.Item, error) {
	return r.list((*inventory.Item).NeedsRestock), nil
}

// Stock 测试断言用：当前库存（不存在时ok=false）
func (r *Repository) Stock(sku string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[sku]
	if !ok {
		return "", false
	}
	return item.StockKg.String(), true
}

func (r *Repository) list(keep func(*inventory.Item) bool) []*inventory.Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*inventory.Item, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

func (r *Repository) takeFailure() error {
	err := r.FailNext
	r.FailNext = nil
	return err
}

var _ inventory.Repository = (*Repository)(nil)
