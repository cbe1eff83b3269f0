// Package restock 补货通知：消费低库存事件，为缺货商品生成采购单
package restock

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	"github.com/xiebiao/cafearoma/internal/domain/purchase"
	"github.com/xiebiao/cafearoma/pkg/mq"
)

// PurchaseNotifier 采购负责人
type PurchaseNotifier struct {
	orders   purchase.Repository
	supplier string
	logger   *zap.Logger
}

func NewPurchaseNotifier(orders purchase.Repository, supplier string, logger *zap.Logger) *PurchaseNotifier {
	return &PurchaseNotifier{orders: orders, supplier: supplier, logger: logger}
}

// Handle 实现mq.Handler
// 无法解析或缺少SKU的消息包装ErrDiscard，不重新入队；仓储出错时返回普通错误，消息重新投递
// 库存严格低于最低库存且该SKU没有待处理采购单时才生成新单
func (n *PurchaseNotifier) Handle(ctx context.Context, routingKey string, body []byte) error {
	var event inventory.LowStockEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: 解析低库存事件失败: %v", mq.ErrDiscard, err)
	}
	if event.SKU == "" {
		return fmt.Errorf("%w: 低库存事件缺少sku", mq.ErrDiscard)
	}

	n.logger.Warn("采购通知：需要补货",
		zap.String("routing_key", routingKey),
		zap.String("sku", event.SKU),
		zap.String("name", event.Name),
		zap.String("grain_type", event.GrainType.DisplayName()),
		zap.String("stock_kg", event.StockKg.String()),
		zap.String("min_stock_kg", event.MinStockKg.String()),
		zap.String("shortfall_kg", event.ShortfallKg().String()),
		zap.Time("occurred_at", event.OccurredAt),
	)

	if !event.StockKg.LessThan(event.MinStockKg) {
		return nil
	}

	pending, err := n.orders.FindPendingBySKU(ctx, event.SKU)
	if err != nil {
		return fmt.Errorf("查询待处理采购单失败: %w", err)
	}
	if pending != nil {
		n.logger.Info("已有待处理采购单", zap.String("sku", event.SKU), zap.Uint("order_id", pending.ID))
		return nil
	}

	order, err := purchase.NewRestockOrder(event.SKU, event.MinStockKg, n.supplier)
	if err != nil {
		return fmt.Errorf("%w: %v", mq.ErrDiscard, err)
	}
	if err := n.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("创建采购单失败: %w", err)
	}

	n.logger.Info("已生成采购单",
		zap.Uint("order_id", order.ID),
		zap.String("sku", order.SKU),
		zap.String("supplier", order.Supplier),
		zap.String("qty_kg", order.QtyKg.String()),
		zap.String("status", string(order.Status)),
	)
	return nil
}
