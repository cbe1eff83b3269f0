package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
)

// stockCommand 入库和出库的公共部分
// 撤销在行锁下做反向加减，其他请求在此期间的变更保留；previous只用于展示
type stockCommand struct {
	state
	repo     inventory.Repository
	sku      string
	kg       decimal.Decimal
	previous decimal.NullDecimal
}

func newStockCommand(repo inventory.Repository, sku string, kg decimal.Decimal) (stockCommand, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return stockCommand{}, inventory.ErrInvalidSKU
	}
	if !kg.IsPositive() {
		return stockCommand{}, inventory.ErrInvalidQuantity
	}
	return stockCommand{repo: repo, sku: sku, kg: kg}, nil
}

func (c *stockCommand) SKU() string {
	return c.sku
}

// Kg 命令数量
func (c *stockCommand) Kg() decimal.Decimal {
	return c.kg
}

// PreviousStock 执行前的库存，未执行时Valid=false
func (c *stockCommand) PreviousStock() decimal.NullDecimal {
	return c.previous
}

// apply 锁定商品行，执行mutate并保存；成功后记录快照
func (c *stockCommand) apply(ctx context.Context, mutate func(*inventory.Item) error) (*inventory.Item, error) {
	if c.executed {
		return nil, ErrAlreadyExecuted
	}

	item, err := c.repo.LockBySKU(ctx, c.sku)
	if err != nil {
		return nil, err
	}

	previous := item.StockKg
	if err := mutate(item); err != nil {
		return nil, err
	}
	if err := c.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	c.previous = decimal.NewNullDecimal(previous)
	c.markExecuted(time.Now())
	return item, nil
}

// undo 锁定商品行后执行反向变更inverse
func (c *stockCommand) undo(ctx context.Context, inverse func(*inventory.Item) error) (string, error) {
	if !c.executed {
		return MsgNotExecuted, nil
	}

	item, err := c.repo.LockBySKU(ctx, c.sku)
	if err != nil {
		return "", err
	}
	if err := inverse(item); err != nil {
		return "", err
	}
	if err := c.repo.Save(ctx, item); err != nil {
		return "", err
	}

	c.clear()
	return fmt.Sprintf("已撤销：%s当前库存%skg", c.sku, formatKg(item.StockKg)), nil
}

func (c *stockCommand) record(kind Kind) Record {
	return Record{
		Type:          kind,
		SKU:           c.sku,
		Kg:            decimal.NewNullDecimal(c.kg),
		PreviousStock: c.previous,
		Executed:      c.executed,
		ExecutedAt:    c.executedAtPtr(),
	}
}

// AddStock 入库命令
type AddStock struct {
	stockCommand
}

// NewAddStock 创建入库命令，kg必须大于0
func NewAddStock(repo inventory.Repository, sku string, kg decimal.Decimal) (*AddStock, error) {
	base, err := newStockCommand(repo, sku, kg)
	if err != nil {
		return nil, err
	}
	return &AddStock{stockCommand: base}, nil
}

func (c *AddStock) Kind() Kind { return KindAddStock }

// Execute 增加库存，SKU不存在返回inventory.ErrItemNotFound
func (c *AddStock) Execute(ctx context.Context) (string, error) {
	item, err := c.apply(ctx, func(item *inventory.Item) error {
		return item.AddStock(c.kg)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("已为%s入库%skg，当前库存%skg", c.sku, formatKg(c.kg), formatKg(item.StockKg)), nil
}

// Undo 扣回入库数量，期间库存已被消耗到不足时返回inventory.ErrInsufficientStock
func (c *AddStock) Undo(ctx context.Context) (string, error) {
	return c.undo(ctx, func(item *inventory.Item) error {
		return item.ConsumeStock(c.kg)
	})
}

func (c *AddStock) Record() Record { return c.record(KindAddStock) }

func (c *AddStock) sealed() {}

// ConsumeStock 出库命令
type ConsumeStock struct {
	stockCommand
}

// NewConsumeStock 创建出库命令，kg必须大于0
func NewConsumeStock(repo inventory.Repository, sku string, kg decimal.Decimal) (*ConsumeStock, error) {
	base, err := newStockCommand(repo, sku, kg)
	if err != nil {
		return nil, err
	}
	return &ConsumeStock{stockCommand: base}, nil
}

func (c *ConsumeStock) Kind() Kind { return KindConsumeStock }

// Execute 扣减库存，库存不足返回inventory.ErrInsufficientStock且不做任何修改
func (c *ConsumeStock) Execute(ctx context.Context) (string, error) {
	item, err := c.apply(ctx, func(item *inventory.Item) error {
		return item.ConsumeStock(c.kg)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("已从%s出库%skg，当前库存%skg", c.sku, formatKg(c.kg), formatKg(item.StockKg)), nil
}

// Undo 加回出库数量
func (c *ConsumeStock) Undo(ctx context.Context) (string, error) {
	return c.undo(ctx, func(item *inventory.Item) error {
		return item.AddStock(c.kg)
	})
}

func (c *ConsumeStock) Record() Record { return c.record(KindConsumeStock) }

func (c *ConsumeStock) sealed() {}
