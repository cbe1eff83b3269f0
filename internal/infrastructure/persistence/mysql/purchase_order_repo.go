package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/cafearoma/internal/domain/purchase"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository 创建采购单仓储
func NewPurchaseOrderRepository(db *gorm.DB) purchase.Repository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, order *purchase.Order) error {
	model := &PurchaseOrderModel{
		SKU:      order.SKU,
		Supplier: order.Supplier,
		QtyKg:    order.QtyKg,
		Status:   string(order.Status),
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.ErrDatabaseError.Wrap(err, "创建采购单失败")
	}

	order.ID = model.ID
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *purchaseOrderRepository) FindPendingBySKU(ctx context.Context, sku string) (*purchase.Order, error) {
	var model PurchaseOrderModel
	err := getDB(ctx, r.db).
		Where("sku = ? AND status = ?", sku, string(purchase.StatusPending)).
		Order("id DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrDatabaseError.Wrap(err, "查询采购单失败")
	}
	return toPurchaseOrderEntity(&model), nil
}

func toPurchaseOrderEntity(model *PurchaseOrderModel) *purchase.Order {
	return &purchase.Order{
		ID:        model.ID,
		SKU:       model.SKU,
		Supplier:  model.Supplier,
		QtyKg:     model.QtyKg,
		Status:    purchase.Status(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
