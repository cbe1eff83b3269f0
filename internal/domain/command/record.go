package command

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
)

// Record 命令的序列化形式，历史记录中保存的就是它
type Record struct {
	Type          Kind                `json:"type"`
	SKU           string              `json:"sku"`
	Kg            decimal.NullDecimal `json:"kg"`             // 入库/出库数量
	PreviousStock decimal.NullDecimal `json:"previous_stock"` // 执行前库存
	ItemData      *ProductData        `json:"item_data,omitempty"`
	Executed      bool                `json:"executed"`
	ExecutedAt    *time.Time          `json:"executed_at,omitempty"`
}

// clone 深拷贝指针字段
func (r Record) clone() Record {
	if r.ItemData != nil {
		data := *r.ItemData
		r.ItemData = &data
	}
	if r.ExecutedAt != nil {
		t := *r.ExecutedAt
		r.ExecutedAt = &t
	}
	return r
}

// Decode 从历史记录重建命令
// 未知类型返回ErrUnrecognizedCommand，字段缺失返回ErrCorruptRecord
func Decode(repo inventory.Repository, rec Record) (Command, error) {
	switch rec.Type {
	case KindAddStock:
		base, err := decodeStock(repo, rec)
		if err != nil {
			return nil, err
		}
		return &AddStock{stockCommand: base}, nil

	case KindConsumeStock:
		base, err := decodeStock(repo, rec)
		if err != nil {
			return nil, err
		}
		return &ConsumeStock{stockCommand: base}, nil

	case KindAddProduct:
		if rec.ItemData == nil || rec.ItemData.SKU == "" {
			return nil, ErrCorruptRecord.WithMessage("命令历史记录已损坏：新增商品缺少item_data")
		}
		cmd := &AddProduct{repo: repo, data: *rec.ItemData}
		restoreState(&cmd.state, rec)
		return cmd, nil

	default:
		return nil, ErrUnrecognizedCommand.WithMessage("无法识别的命令类型: %q", rec.Type)
	}
}

func decodeStock(repo inventory.Repository, rec Record) (stockCommand, error) {
	if rec.SKU == "" || !rec.Kg.Valid || !rec.Kg.Decimal.IsPositive() {
		return stockCommand{}, ErrCorruptRecord.WithMessage("命令历史记录已损坏：%s缺少sku或kg", rec.Type.DisplayName())
	}
	if rec.Executed && !rec.PreviousStock.Valid {
		return stockCommand{}, ErrCorruptRecord.WithMessage("命令历史记录已损坏：%s缺少previous_stock", rec.Type.DisplayName())
	}

	base := stockCommand{
		repo:     repo,
		sku:      rec.SKU,
		kg:       rec.Kg.Decimal,
		previous: rec.PreviousStock,
	}
	restoreState(&base.state, rec)
	return base, nil
}

func restoreState(s *state, rec Record) {
	s.executed = rec.Executed
	if rec.ExecutedAt != nil {
		s.executedAt = *rec.ExecutedAt
	}
}
