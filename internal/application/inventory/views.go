package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/cafearoma/internal/domain/command"
	"github.com/xiebiao/cafearoma/internal/domain/inventory"
)

// ItemView 商品（应用层DTO）
type ItemView struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	GrainType    string          `json:"grain_type"`
	GrainName    string          `json:"grain_name"`
	StockKg      decimal.Decimal `json:"stock_kg"`
	MinStockKg   decimal.Decimal `json:"min_stock_kg"`
	NeedsRestock bool            `json:"needs_restock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toItemView(item *inventory.Item) ItemView {
	return ItemView{
		SKU:          item.SKU,
		Name:         item.Name,
		GrainType:    string(item.GrainType),
		GrainName:    item.GrainType.DisplayName(),
		StockKg:      item.StockKg,
		MinStockKg:   item.MinStockKg,
		NeedsRestock: item.NeedsRestock(),
		UpdatedAt:    item.UpdatedAt,
	}
}

func toItemViews(items []*inventory.Item) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, toItemView(item))
	}
	return views
}

// HistoryEntry 命令历史中的一条
type HistoryEntry struct {
	Type          string               `json:"type"`
	TypeName      string               `json:"type_name"`
	SKU           string               `json:"sku"`
	Kg            *decimal.Decimal     `json:"kg,omitempty"`
	PreviousStock *decimal.Decimal     `json:"previous_stock,omitempty"`
	Product       *command.ProductData `json:"product,omitempty"`
	Executed      bool                 `json:"executed"`
	ExecutedAt    *time.Time           `json:"executed_at,omitempty"`
	Description   string               `json:"description"`
}

func toHistoryEntries(h command.History) []HistoryEntry {
	records := h.Entries()
	entries := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, toHistoryEntry(rec))
	}
	return entries
}

func toHistoryEntry(rec command.Record) HistoryEntry {
	entry := HistoryEntry{
		Type:       string(rec.Type),
		TypeName:   rec.Type.DisplayName(),
		SKU:        rec.SKU,
		Product:    rec.ItemData,
		Executed:   rec.Executed,
		ExecutedAt: rec.ExecutedAt,
	}
	if rec.Kg.Valid {
		kg := rec.Kg.Decimal
		entry.Kg = &kg
	}
	if rec.PreviousStock.Valid {
		prev := rec.PreviousStock.Decimal
		entry.PreviousStock = &prev
	}

	switch rec.Type {
	case command.KindAddStock, command.KindConsumeStock:
		entry.Description = fmt.Sprintf("%s %s %skg", rec.Type.DisplayName(), rec.SKU, rec.Kg.Decimal.String())
	case command.KindAddProduct:
		name := ""
		if rec.ItemData != nil {
			name = rec.ItemData.Name
		}
		entry.Description = fmt.Sprintf("%s %s %s", rec.Type.DisplayName(), rec.SKU, name)
	case command.KindUnreadable:
		entry.Description = "无法读取的记录，撤销到此处时将被丢弃"
	default:
		entry.Description = fmt.Sprintf("未知命令 %s", rec.Type)
	}
	return entry
}
