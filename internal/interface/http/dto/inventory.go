package dto

import (
	"github.com/shopspring/decimal"
)

// StockRequest 入库/出库
// kg支持JSON数字或字符串（"0.5"），必须大于0
type StockRequest struct {
	SKU string          `json:"sku" binding:"required,max=50" example:"CAF-AR-001"`
	Kg  decimal.Decimal `json:"kg" swaggertype:"string" example:"0.5"`
}

// ProductRequest 新增商品
type ProductRequest struct {
	SKU        string              `json:"sku" binding:"required,max=50" example:"CAF-BL-010"`
	Name       string              `json:"name" binding:"required,max=100" example:"Blend de la Casa"`
	GrainType  string              `json:"grain_type" binding:"required,oneof=AR RO BL" example:"BL"`
	StockKg    decimal.Decimal     `json:"stock_kg" swaggertype:"string" example:"25"`
	MinStockKg decimal.NullDecimal `json:"min_stock_kg" swaggertype:"string" example:"10"` // 不传时使用默认最低库存
}
