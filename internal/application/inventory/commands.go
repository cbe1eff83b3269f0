package inventory

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/cafearoma/internal/domain/command"
	"github.com/xiebiao/cafearoma/internal/domain/inventory"
)

// CommandUseCase 把店员的请求组装成命令交给CommandInvoker
type CommandUseCase struct {
	invoker         *CommandInvoker
	defaultMinStock decimal.Decimal
}

// NewCommandUseCase defaultMinStock用于新增商品时未指定最低库存
func NewCommandUseCase(invoker *CommandInvoker, defaultMinStock decimal.Decimal) *CommandUseCase {
	return &CommandUseCase{invoker: invoker, defaultMinStock: defaultMinStock}
}

// StockRequest 入库/出库请求
type StockRequest struct {
	SessionID string
	SKU       string
	Kg        decimal.Decimal
}

// ProductRequest 新增商品请求
type ProductRequest struct {
	SessionID  string
	SKU        string
	Name       string
	GrainType  inventory.GrainType
	StockKg    decimal.Decimal
	MinStockKg decimal.NullDecimal // 未指定时使用默认值
}

// CommandResult 命令执行结果
type CommandResult struct {
	Message string    `json:"message"`
	Item    *ItemView `json:"item,omitempty"` // 执行后的商品状态，商品已删除时为空
}

// AddStock 入库
func (uc *CommandUseCase) AddStock(ctx context.Context, req StockRequest) (*CommandResult, error) {
	cmd, err := command.NewAddStock(uc.invoker.Repository(), req.SKU, req.Kg)
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, req.SessionID, cmd)
}

// ConsumeStock 出库
func (uc *CommandUseCase) ConsumeStock(ctx context.Context, req StockRequest) (*CommandResult, error) {
	cmd, err := command.NewConsumeStock(uc.invoker.Repository(), req.SKU, req.Kg)
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, req.SessionID, cmd)
}

// AddProduct 新增商品
func (uc *CommandUseCase) AddProduct(ctx context.Context, req ProductRequest) (*CommandResult, error) {
	minStock := uc.defaultMinStock
	if req.MinStockKg.Valid {
		minStock = req.MinStockKg.Decimal
	}

	cmd, err := command.NewAddProduct(uc.invoker.Repository(), command.ProductData{
		SKU:        req.SKU,
		Name:       req.Name,
		GrainType:  req.GrainType,
		StockKg:    req.StockKg,
		MinStockKg: minStock,
	})
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, req.SessionID, cmd)
}

// Undo 撤销最近一条命令
func (uc *CommandUseCase) Undo(ctx context.Context, sessionID string) (*CommandResult, error) {
	msg, err := uc.invoker.UndoLast(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &CommandResult{Message: msg}, nil
}

// History 会话命令历史，按执行顺序
func (uc *CommandUseCase) History(ctx context.Context, sessionID string) ([]HistoryEntry, error) {
	h, err := uc.invoker.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toHistoryEntries(h), nil
}

// ClearHistory 清空会话命令历史
func (uc *CommandUseCase) ClearHistory(ctx context.Context, sessionID string) error {
	return uc.invoker.ClearHistory(ctx, sessionID)
}

func (uc *CommandUseCase) execute(ctx context.Context, sessionID string, cmd command.Command) (*CommandResult, error) {
	msg, err := uc.invoker.ExecuteCommand(ctx, sessionID, cmd)
	if err != nil {
		return nil, err
	}

	result := &CommandResult{Message: msg}
	item, err := uc.invoker.Repository().FindBySKU(ctx, cmd.SKU())
	switch {
	case err == nil:
		view := toItemView(item)
		result.Item = &view
	case !errors.Is(err, inventory.ErrItemNotFound):
		// 命令已经提交，读取失败只影响展示
		uc.invoker.logger.Warn("读取商品失败", zap.String("sku", cmd.SKU()), zap.Error(err))
	}
	return result, nil
}
