package inventory

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// GrainType 咖啡豆类型
type GrainType string

const (
	GrainArabica GrainType = "AR"
	GrainRobusta GrainType = "RO"
	GrainBlend   GrainType = "BL"
)

// Valid 是否为已知类型
func (g GrainType) Valid() bool {
	switch g {
	case GrainArabica, GrainRobusta, GrainBlend:
		return true
	}
	return false
}

// DisplayName 展示名称
func (g GrainType) DisplayName() string {
	switch g {
	case GrainArabica:
		return "Arábica"
	case GrainRobusta:
		return "Robusta"
	case GrainBlend:
		return "Blend"
	default:
		return string(g)
	}
}

const (
	maxSKULen  = 50
	maxNameLen = 100
)

// DefaultMinStockKg 未指定最低库存时的默认值
var DefaultMinStockKg = decimal.NewFromInt(10)

// Item 库存商品（聚合根）
// 数量单位为千克，撤销后必须精确回到原值
type Item struct {
	ID         uint
	SKU        string // 业务唯一标识
	Name       string
	GrainType  GrainType
	StockKg    decimal.Decimal
	MinStockKg decimal.Decimal // 低于等于该值需要补货
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewItem 创建库存商品（工厂方法）
func NewItem(sku, name string, grainType GrainType, stockKg, minStockKg decimal.Decimal) (*Item, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)

	if sku == "" || utf8.RuneCountInString(sku) > maxSKULen {
		return nil, ErrInvalidSKU
	}
	if name == "" || utf8.RuneCountInString(name) > maxNameLen {
		return nil, ErrInvalidName
	}
	if !grainType.Valid() {
		return nil, ErrInvalidGrainType
	}
	if stockKg.IsNegative() || minStockKg.IsNegative() {
		return nil, ErrInvalidStock
	}

	now := time.Now()
	return &Item{
		SKU:        sku,
		Name:       name,
		GrainType:  grainType,
		StockKg:    stockKg,
		MinStockKg: minStockKg,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// AddStock 入库
func (i *Item) AddStock(kg decimal.Decimal) error {
	if !kg.IsPositive() {
		return ErrInvalidQuantity
	}
	i.StockKg = i.StockKg.Add(kg)
	i.UpdatedAt = time.Now()
	return nil
}

// ConsumeStock 出库
// 业务规则：库存不足时不修改任何字段
func (i *Item) ConsumeStock(kg decimal.Decimal) error {
	if !kg.IsPositive() {
		return ErrInvalidQuantity
	}
	if i.StockKg.LessThan(kg) {
		return ErrInsufficientStock.WithMessage("%s库存不足：当前%skg，需要%skg", i.SKU, i.StockKg.String(), kg.String())
	}
	i.StockKg = i.StockKg.Sub(kg)
	i.UpdatedAt = time.Now()
	return nil
}

// NeedsRestock 是否需要补货
func (i *Item) NeedsRestock() bool {
	return i.StockKg.LessThanOrEqual(i.MinStockKg)
}

// Clone 深拷贝（decimal本身不可变，值拷贝即可）
func (i *Item) Clone() *Item {
	c := *i
	return &c
}
