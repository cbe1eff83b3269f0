package command_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/cafearoma/internal/domain/command"
	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

func TestRecord_JSONShape(t *testing.T) {
	repo := newRepo(t, "100")
	cmd, err := command.NewConsumeStock(repo, sku, kg("25"))
	require.NoError(t, err)
	_, err = cmd.Execute(context.Background())
	require.NoError(t, err)

	data, err := json.Marshal(cmd.Record())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "consume_stock", raw["type"])
	assert.Equal(t, sku, raw["sku"])
	assert.Equal(t, "25", raw["kg"])
	assert.Equal(t, "100", raw["previous_stock"])
	assert.Equal(t, true, raw["executed"])
	assert.NotEmpty(t, raw["executed_at"])
	assert.NotContains(t, raw, "item_data")
}

func TestDecode_StockRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, "100")

	original, err := command.NewConsumeStock(repo, sku, kg("25"))
	require.NoError(t, err)
	_, err = original.Execute(ctx)
	require.NoError(t, err)

	data, err := json.Marshal(original.Record())
	require.NoError(t, err)
	var rec command.Record
	require.NoError(t, json.Unmarshal(data, &rec))

	decoded, err := command.Decode(repo, rec)
	require.NoError(t, err)
	assert.Equal(t, command.KindConsumeStock, decoded.Kind())
	assert.True(t, decoded.Executed())

	_, err = decoded.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", stockOf(t, repo))
}

func TestDecode_AddProduct(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, "1")
	now := time.Now()

	decoded, err := command.Decode(repo, command.Record{
		Type:       command.KindAddProduct,
		SKU:        sku,
		ItemData:   &command.ProductData{SKU: sku, Name: "Arábica Huila", GrainType: inventory.GrainArabica},
		Executed:   true,
		ExecutedAt: &now,
	})
	require.NoError(t, err)

	_, err = decoded.Undo(ctx)
	require.NoError(t, err)
	_, err = repo.FindBySKU(ctx, sku)
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestDecode_Errors(t *testing.T) {
	repo := newRepo(t, "1")

	tests := []struct {
		name    string
		rec     command.Record
		wantErr error
	}{
		{"未知类型", command.Record{Type: "AgregarStockCommand", SKU: sku}, command.ErrUnrecognizedCommand},
		{"空类型", command.Record{}, command.ErrUnrecognizedCommand},
		{"缺少kg", command.Record{Type: command.KindAddStock, SKU: sku}, command.ErrCorruptRecord},
		{"缺少sku", command.Record{Type: command.KindConsumeStock, Kg: decimal.NewNullDecimal(kg("1"))}, command.ErrCorruptRecord},
		{"已执行但缺少快照", command.Record{
			Type: command.KindAddStock, SKU: sku, Kg: decimal.NewNullDecimal(kg("1")), Executed: true,
		}, command.ErrCorruptRecord},
		{"缺少item_data", command.Record{Type: command.KindAddProduct, SKU: sku}, command.ErrCorruptRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := command.Decode(repo, tt.rec)
			assert.Nil(t, cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := command.Decode(repo, command.Record{Type: "x"})
	assert.NotErrorIs(t, err, command.ErrCorruptRecord)
	assert.NotEqual(t, command.ErrUnrecognizedCommand.Code, command.ErrCorruptRecord.Code)
	assert.Equal(t, apperrors.ErrCodeCorruptRecord, apperrors.GetAppError(command.ErrCorruptRecord).Code)
}
