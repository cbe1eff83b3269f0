// Package command 可撤销的库存命令
//
// 命令种类是封闭集合（入库、出库、新增商品），Command接口带未导出方法，
// 包外无法实现；从历史记录重建命令只能通过Decode，按Kind穷举。
package command

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind 命令类型标签，写入历史记录
type Kind string

const (
	KindAddStock     Kind = "add_stock"
	KindConsumeStock Kind = "consume_stock"
	KindAddProduct   Kind = "add_product"

	// KindUnreadable 历史中无法解析的元素，只用于展示，撤销时被丢弃
	KindUnreadable Kind = "unreadable"
)

// Valid 是否为已知类型
func (k Kind) Valid() bool {
	switch k {
	case KindAddStock, KindConsumeStock, KindAddProduct:
		return true
	}
	return false
}

// DisplayName 展示名称
func (k Kind) DisplayName() string {
	switch k {
	case KindAddStock:
		return "入库"
	case KindConsumeStock:
		return "出库"
	case KindAddProduct:
		return "新增商品"
	case KindUnreadable:
		return "无法读取的记录"
	default:
		return string(k)
	}
}

// Command 可撤销的库存命令
//
// Execute最多成功一次：成功后记录执行前的状态并置executed。
// Undo只在executed时生效，成功后清除executed；未执行或重复撤销返回提示信息，不返回错误。
// 两个方法都不开启事务，由调用方（CommandInvoker）把它们放进事务。
type Command interface {
	Kind() Kind
	SKU() string
	Execute(ctx context.Context) (string, error)
	Undo(ctx context.Context) (string, error)
	// Executed 是否处于已执行状态
	Executed() bool
	// Record 当前状态的可序列化快照
	Record() Record

	sealed()
}

// 命令状态，三种命令共用
type state struct {
	executed   bool
	executedAt time.Time
}

func (s *state) markExecuted(now time.Time) {
	s.executed = true
	s.executedAt = now
}

func (s *state) clear() {
	s.executed = false
}

func (s *state) Executed() bool {
	return s.executed
}

func (s *state) executedAtPtr() *time.Time {
	if !s.executed {
		return nil
	}
	t := s.executedAt
	return &t
}

// formatKg 统一数量展示：去掉多余的小数位
func formatKg(d decimal.Decimal) string {
	return d.String()
}
