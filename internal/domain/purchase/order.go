// Package purchase 采购单：库存低于最低值时生成，交给采购负责人处理
package purchase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

// Status 采购单状态
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusOrdered   Status = "ORDERED"
	StatusReceived  Status = "RECEIVED"
	StatusCancelled Status = "CANCELLED"
)

// DisplayName 展示名称
func (s Status) DisplayName() string {
	switch s {
	case StatusPending:
		return "待处理"
	case StatusOrdered:
		return "已下单"
	case StatusReceived:
		return "已收货"
	case StatusCancelled:
		return "已取消"
	default:
		return string(s)
	}
}

// ReorderFactor 补货量是最低库存的倍数
var ReorderFactor = decimal.NewFromInt(2)

var (
	ErrInvalidSupplier = apperrors.New(apperrors.ErrCodeInvalidParams, "供应商不能为空且不超过200个字符")
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "采购数量必须大于0")
)

// Order 采购单
type Order struct {
	ID        uint
	SKU       string
	Supplier  string
	QtyKg     decimal.Decimal
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRestockOrder 为低库存商品生成待处理采购单，数量为最低库存的两倍
func NewRestockOrder(sku string, minStockKg decimal.Decimal, supplier string) (*Order, error) {
	supplier = strings.TrimSpace(supplier)
	if supplier == "" || len(supplier) > 200 {
		return nil, ErrInvalidSupplier
	}
	qty := minStockKg.Mul(ReorderFactor)
	if !qty.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	return &Order{
		SKU:       sku,
		Supplier:  supplier,
		QtyKg:     qty,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Repository 采购单仓储
type Repository interface {
	Create(ctx context.Context, order *Order) error

	// FindPendingBySKU 该SKU尚未处理的采购单，没有时返回(nil, nil)
	FindPendingBySKU(ctx context.Context, sku string) (*Order, error)
}
