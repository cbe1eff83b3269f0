package inventory

import (
	"context"
)

// Repository 库存仓储接口
// 实现需要识别ctx中的事务（见mysql.TxManager），LockBySKU只在事务内有意义
type Repository interface {
	// FindBySKU 按SKU查询，不存在返回ErrItemNotFound
	FindBySKU(ctx context.Context, sku string) (*Item, error)

	// LockBySKU 按SKU查询并加行锁（SELECT ... FOR UPDATE），不存在返回ErrItemNotFound
	LockBySKU(ctx context.Context, sku string) (*Item, error)

	// Save 保存已存在商品的库存和基本信息，不存在返回ErrItemNotFound
	Save(ctx context.Context, item *Item) error

	// Create 新建商品，SKU已存在返回ErrSKUDuplicate
	Create(ctx context.Context, item *Item) error

	// Delete 按SKU删除，不存在返回ErrItemNotFound
	Delete(ctx context.Context, sku string) error

	// List 全部商品，按SKU排序
	List(ctx context.Context) ([]*Item, error)

	// ListLowStock 需要补货的商品（stock_kg <= min_stock_kg），按SKU排序
	ListLowStock(ctx context.Context) ([]*Item, error)
}
