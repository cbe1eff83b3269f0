package inventory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	"github.com/xiebiao/cafearoma/pkg/metrics"
)

// EventPublisher 事件发布，由messaging.Publisher实现
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// LowStockAlert 库存观察者：库存降到最低库存以下时发布低库存事件
// 发布失败只记日志，不影响已经提交的库存命令
type LowStockAlert struct {
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewLowStockAlert(publisher EventPublisher, logger *zap.Logger) *LowStockAlert {
	return &LowStockAlert{publisher: publisher, logger: logger, now: time.Now}
}

func (a *LowStockAlert) StockChanged(ctx context.Context, item *inventory.Item) {
	if !item.NeedsRestock() {
		return
	}

	event := inventory.NewLowStockEvent(item, a.now())
	metrics.RecordLowStockAlert(string(item.GrainType))
	a.logger.Warn("库存低于最低库存，需要补货",
		zap.String("sku", item.SKU),
		zap.String("name", item.Name),
		zap.String("stock_kg", item.StockKg.String()),
		zap.String("min_stock_kg", item.MinStockKg.String()),
	)

	if err := a.publisher.Publish(ctx, inventory.RoutingKeyLowStock, event); err != nil {
		a.logger.Error("低库存事件发布失败", zap.String("sku", item.SKU), zap.Error(err))
	}
}

var _ inventory.Observer = (*LowStockAlert)(nil)
