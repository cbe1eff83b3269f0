package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
)

// DashboardUseCase 库存看板和商品详情
type DashboardUseCase struct {
	repo    inventory.Repository
	invoker *CommandInvoker
}

func NewDashboardUseCase(repo inventory.Repository, invoker *CommandInvoker) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, invoker: invoker}
}

// Dashboard 看板数据
type Dashboard struct {
	Items         []ItemView      `json:"items"`
	LowStock      []ItemView      `json:"low_stock"`
	History       []HistoryEntry  `json:"history"`
	TotalItems    int             `json:"total_items"`
	LowStockCount int             `json:"low_stock_count"`
	TotalStockKg  decimal.Decimal `json:"total_stock_kg"`
}

// Execute 全部商品、需要补货的商品和当前会话的命令历史
func (uc *DashboardUseCase) Execute(ctx context.Context, sessionID string) (*Dashboard, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	history, err := uc.invoker.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Items:        toItemViews(items),
		LowStock:     make([]ItemView, 0),
		History:      toHistoryEntries(history),
		TotalItems:   len(items),
		TotalStockKg: decimal.Zero,
	}
	for _, item := range items {
		d.TotalStockKg = d.TotalStockKg.Add(item.StockKg)
		if item.NeedsRestock() {
			d.LowStock = append(d.LowStock, toItemView(item))
		}
	}
	d.LowStockCount = len(d.LowStock)
	return d, nil
}

// Item 按SKU查询商品详情
func (uc *DashboardUseCase) Item(ctx context.Context, sku string) (*ItemView, error) {
	item, err := uc.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	view := toItemView(item)
	return &view, nil
}

// LowStock 需要补货的商品
func (uc *DashboardUseCase) LowStock(ctx context.Context) ([]ItemView, error) {
	items, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toItemViews(items), nil
}
