package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

// inventoryRepository 库存商品仓储（MySQL）
// 所有方法通过getDB识别ctx中的事务
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) FindBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	var model InventoryItemModel
	if err := getDB(ctx, r.db).Where("sku = ?", sku).First(&model).Error; err != nil {
		return nil, r.notFoundOr(err, sku, "查询库存商品失败")
	}
	return toItemEntity(&model), nil
}

// LockBySKU SELECT ... FOR UPDATE，锁在事务提交或回滚时释放
func (r *inventoryRepository) LockBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	var model InventoryItemModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sku = ?", sku).
		First(&model).Error
	if err != nil {
		return nil, r.notFoundOr(err, sku, "锁定库存商品失败")
	}
	return toItemEntity(&model), nil
}

// Save 按SKU更新，不改变ID和创建时间
func (r *inventoryRepository) Save(ctx context.Context, item *inventory.Item) error {
	result := getDB(ctx, r.db).
		Model(&InventoryItemModel{}).
		Where("sku = ?", item.SKU).
		Updates(map[string]interface{}{
			"name":         item.Name,
			"grain_type":   string(item.GrainType),
			"stock_kg":     item.StockKg,
			"min_stock_kg": item.MinStockKg,
			"updated_at":   item.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.ErrDatabaseError.Wrap(result.Error, "保存库存商品失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL对值未变化的行返回0，需要再确认一次是否存在
	var count int64
	if err := getDB(ctx, r.db).Model(&InventoryItemModel{}).Where("sku = ?", item.SKU).Count(&count).Error; err != nil {
		return apperrors.ErrDatabaseError.Wrap(err, "保存库存商品失败")
	}
	if count == 0 {
		return inventory.ErrItemNotFound.WithMessage("库存商品%s不存在", item.SKU)
	}
	return nil
}

// Create SKU唯一性由uniqueIndex保证
func (r *inventoryRepository) Create(ctx context.Context, item *inventory.Item) error {
	model := &InventoryItemModel{
		SKU:        item.SKU,
		Name:       item.Name,
		GrainType:  string(item.GrainType),
		StockKg:    item.StockKg,
		MinStockKg: item.MinStockKg,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return inventory.ErrSKUDuplicate.WithMessage("SKU %s已存在", item.SKU)
		}
		return apperrors.ErrDatabaseError.Wrap(err, "创建库存商品失败")
	}

	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 硬删除
func (r *inventoryRepository) Delete(ctx context.Context, sku string) error {
	result := getDB(ctx, r.db).Where("sku = ?", sku).Delete(&InventoryItemModel{})
	if result.Error != nil {
		return apperrors.ErrDatabaseError.Wrap(result.Error, "删除库存商品失败")
	}
	if result.RowsAffected == 0 {
		return inventory.ErrItemNotFound.WithMessage("库存商品%s不存在", sku)
	}
	return nil
}

func (r *inventoryRepository) List(ctx context.Context) ([]*inventory.Item, error) {
	var models []InventoryItemModel
	if err := getDB(ctx, r.db).Order("sku ASC").Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.Wrap(err, "查询库存列表失败")
	}
	return toItemEntities(models), nil
}

// ListLowStock stock_kg <= min_stock_kg，按SKU排序
func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]*inventory.Item, error) {
	var models []InventoryItemModel
	err := getDB(ctx, r.db).
		Where("stock_kg <= min_stock_kg").
		Order("sku ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.ErrDatabaseError.Wrap(err, "查询低库存商品失败")
	}
	return toItemEntities(models), nil
}

func (r *inventoryRepository) notFoundOr(err error, sku, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inventory.ErrItemNotFound.WithMessage("库存商品%s不存在", sku)
	}
	return apperrors.ErrDatabaseError.Wrap(err, message)
}

func toItemEntity(model *InventoryItemModel) *inventory.Item {
	return &inventory.Item{
		ID:         model.ID,
		SKU:        model.SKU,
		Name:       model.Name,
		GrainType:  inventory.GrainType(model.GrainType),
		StockKg:    model.StockKg,
		MinStockKg: model.MinStockKg,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toItemEntities(models []InventoryItemModel) []*inventory.Item {
	items := make([]*inventory.Item, 0, len(models))
	for i := range models {
		items = append(items, toItemEntity(&models[i]))
	}
	return items
}
