package command_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/cafearoma/internal/domain/command"
	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	"github.com/xiebiao/cafearoma/internal/domain/inventory/inventorytest"
)

const sku = "CAF-AR-001"

func kg(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newRepo(t *testing.T, stock string) *inventorytest.Repository {
	t.Helper()
	item, err := inventory.NewItem(sku, "Arábica Huila", inventory.GrainArabica, kg(stock), inventory.DefaultMinStockKg)
	require.NoError(t, err)
	return inventorytest.NewRepository(item)
}

func stockOf(t *testing.T, repo *inventorytest.Repository) string {
	t.Helper()
	stock, ok := repo.Stock(sku)
	require.True(t, ok)
	return stock
}

func TestConsumeStock_ExecuteAndUndo(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, "100")

	cmd, err := command.NewConsumeStock(repo, sku, kg("25"))
	require.NoError(t, err)

	msg, err := cmd.Execute(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "75")
	assert.Equal(t, "75", stockOf(t, repo))
	assert.True(t, cmd.Executed())
	assert.True(t, cmd.PreviousStock().Decimal.Equal(kg("100")))

	msg, err = cmd.Undo(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "撤销")
	assert.Equal(t, "100", stockOf(t, repo))
	assert.False(t, cmd.Executed())

	// 第二次撤销只返回提示
	msg, err = cmd.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, command.MsgNotExecuted, msg)
	assert.Equal(t, "100", stockOf(t, repo))
}

func TestConsumeStock_Insufficient(t *testing.T) {
	repo := newRepo(t, "10")
	cmd, err := command.NewConsumeStock(repo, sku, kg("1000"))
	require.NoError(t, err)

	_, err = cmd.Execute(context.Background())
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, "10", stockOf(t, repo))
	assert.False(t, cmd.Executed())
	assert.False(t, cmd.Record().PreviousStock.Valid)
}

func TestAddStock_ExecuteAndUndo(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, "12.5")

	cmd, err := command.NewAddStock(repo, sku, kg("0.75"))
	require.NoError(t, err)

	_, err = cmd.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, "13.25", stockOf(t, repo))

	_, err = cmd.Execute(ctx)
	assert.ErrorIs(t, err, command.ErrAlreadyExecuted)
	assert.Equal(t, "13.25", stockOf(t, repo))

	_, err = cmd.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12.5", stockOf(t, repo))
}

func TestStockUndo_KeepsInterleavedChanges(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, "100")

	add, err := command.NewAddStock(repo, sku, kg("10"))
	require.NoError(t, err)
	consume, err := command.NewConsumeStock(repo, sku, kg("50"))
	require.NoError(t, err)

	_, err = add.Execute(ctx)
	require.NoError(t, err)
	_, err = consume.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, "60", stockOf(t, repo))

	// 先撤销较早的入库，出库的50kg不能丢失
	_, err = add.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "50", stockOf(t, repo))

	_, err = consume.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", stockOf(t, repo))
}

func TestAddStockUndo_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, "5")

	add, err := command.NewAddStock(repo, sku, kg("10"))
	require.NoError(t, err)
	_, err = add.Execute(ctx)
	require.NoError(t, err)

	consume, err := command.NewConsumeStock(repo, sku, kg("12"))
	require.NoError(t, err)
	_, err = consume.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", stockOf(t, repo))

	_, err = add.Undo(ctx)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, "3", stockOf(t, repo))
	assert.True(t, add.Executed())
}

func TestAddStock_UnknownSKU(t *testing.T) {
	repo := newRepo(t, "1")
	cmd, err := command.NewAddStock(repo, "NOPE", kg("1"))
	require.NoError(t, err)

	_, err = cmd.Execute(context.Background())
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestNewStockCommand_Validation(t *testing.T) {
	repo := newRepo(t, "1")

	_, err := command.NewAddStock(repo, sku, kg("0"))
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	_, err = command.NewConsumeStock(repo, sku, kg("-2"))
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	_, err = command.NewConsumeStock(repo, " ", kg("2"))
	assert.ErrorIs(t, err, inventory.ErrInvalidSKU)
}

func TestUndoBeforeExecute(t *testing.T) {
	repo := newRepo(t, "50")
	cmd, err := command.NewAddStock(repo, sku, kg("5"))
	require.NoError(t, err)

	msg, err := cmd.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, command.MsgNotExecuted, msg)
	assert.Equal(t, "50", stockOf(t, repo))
}

func TestAddProduct_ExecuteAndUndo(t *testing.T) {
	ctx := context.Background()
	repo := inventorytest.NewRepository()

	cmd, err := command.NewAddProduct(repo, command.ProductData{
		SKU:        " X ",
		Name:       "Blend Casa",
		GrainType:  inventory.GrainBlend,
		StockKg:    kg("30"),
		MinStockKg: kg("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "X", cmd.SKU())

	_, err = cmd.Execute(ctx)
	require.NoError(t, err)
	item, err := repo.FindBySKU(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, "Blend Casa", item.Name)

	_, err = cmd.Undo(ctx)
	require.NoError(t, err)
	_, err = repo.FindBySKU(ctx, "X")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestAddProduct_Duplicate(t *testing.T) {
	repo := newRepo(t, "1")
	cmd, err := command.NewAddProduct(repo, command.ProductData{
		SKU: sku, Name: "dup", GrainType: inventory.GrainArabica,
	})
	require.NoError(t, err)

	_, err = cmd.Execute(context.Background())
	assert.ErrorIs(t, err, inventory.ErrSKUDuplicate)
	assert.False(t, cmd.Executed())
}

func TestNewAddProduct_Invalid(t *testing.T) {
	_, err := command.NewAddProduct(inventorytest.NewRepository(), command.ProductData{
		SKU: "X", Name: "x", GrainType: "ZZ",
	})
	assert.ErrorIs(t, err, inventory.ErrInvalidGrainType)
}

func TestKind(t *testing.T) {
	assert.True(t, command.KindAddProduct.Valid())
	assert.False(t, command.Kind("AgregarStockCommand").Valid())
	assert.Equal(t, "出库", command.KindConsumeStock.DisplayName())
}
