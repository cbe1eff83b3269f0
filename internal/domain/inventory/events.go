package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoutingKeyLowStock 低库存事件的路由键（RabbitMQ routing key / Kafka message key前缀）
const RoutingKeyLowStock = "inventory.low_stock"

// LowStockEvent 低库存事件，由补货通知进程消费
type LowStockEvent struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	GrainType  GrainType       `json:"grain_type"`
	StockKg    decimal.Decimal `json:"stock_kg"`
	MinStockKg decimal.Decimal `json:"min_stock_kg"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewLowStockEvent 根据商品当前状态生成事件
func NewLowStockEvent(item *Item, now time.Time) LowStockEvent {
	return LowStockEvent{
		SKU:        item.SKU,
		Name:       item.Name,
		GrainType:  item.GrainType,
		StockKg:    item.StockKg,
		MinStockKg: item.MinStockKg,
		OccurredAt: now,
	}
}

// ShortfallKg 距离最低库存还差多少（不需要补货时为0）
func (e LowStockEvent) ShortfallKg() decimal.Decimal {
	diff := e.MinStockKg.Sub(e.StockKg)
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}

// PartitionKey 同一SKU的事件进入同一个Kafka分区，保持顺序
func (e LowStockEvent) PartitionKey() string {
	return e.SKU
}
