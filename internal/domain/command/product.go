package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
)

// ProductData 新增商品的字段，原样写入历史记录
type ProductData struct {
	SKU        string              `json:"sku"`
	Name       string              `json:"name"`
	GrainType  inventory.GrainType `json:"grain_type"`
	StockKg    decimal.Decimal     `json:"stock_kg"`
	MinStockKg decimal.Decimal     `json:"min_stock_kg"`
}

// toItem 按领域规则校验并生成商品
func (d ProductData) toItem() (*inventory.Item, error) {
	return inventory.NewItem(d.SKU, d.Name, d.GrainType, d.StockKg, d.MinStockKg)
}

// AddProduct 新增商品命令，撤销即删除该商品
type AddProduct struct {
	state
	repo inventory.Repository
	data ProductData
}

// NewAddProduct 创建新增商品命令，字段不合法时直接返回领域错误
func NewAddProduct(repo inventory.Repository, data ProductData) (*AddProduct, error) {
	item, err := data.toItem()
	if err != nil {
		return nil, err
	}
	// 使用规范化后的值（去掉首尾空格）
	data.SKU = item.SKU
	data.Name = item.Name
	return &AddProduct{repo: repo, data: data}, nil
}

func (c *AddProduct) Kind() Kind { return KindAddProduct }

func (c *AddProduct) SKU() string { return c.data.SKU }

// Data 商品字段
func (c *AddProduct) Data() ProductData { return c.data }

// Execute 创建商品，SKU已存在返回inventory.ErrSKUDuplicate
func (c *AddProduct) Execute(ctx context.Context) (string, error) {
	if c.executed {
		return "", ErrAlreadyExecuted
	}

	item, err := c.data.toItem()
	if err != nil {
		return "", err
	}
	if err := c.repo.Create(ctx, item); err != nil {
		return "", err
	}

	c.markExecuted(time.Now())
	return fmt.Sprintf("商品%s（%s）已添加，初始库存%skg", item.SKU, item.Name, formatKg(item.StockKg)), nil
}

// Undo 删除创建的商品；商品已被删除时返回inventory.ErrItemNotFound
func (c *AddProduct) Undo(ctx context.Context) (string, error) {
	if !c.executed {
		return MsgNotExecuted, nil
	}
	if err := c.repo.Delete(ctx, c.data.SKU); err != nil {
		return "", err
	}

	c.clear()
	return fmt.Sprintf("商品%s已删除（撤销）", c.data.SKU), nil
}

func (c *AddProduct) Record() Record {
	data := c.data
	return Record{
		Type:       KindAddProduct,
		SKU:        c.data.SKU,
		ItemData:   &data,
		Executed:   c.executed,
		ExecutedAt: c.executedAtPtr(),
	}
}

func (c *AddProduct) sealed() {}
