package purchase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRestockOrder(t *testing.T) {
	order, err := NewRestockOrder("CAF-RO-002", decimal.RequireFromString("12.5"), " Proveedor Base ")
	require.NoError(t, err)
	assert.Equal(t, "CAF-RO-002", order.SKU)
	assert.Equal(t, "Proveedor Base", order.Supplier)
	assert.Equal(t, "25", order.QtyKg.String())
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, "待处理", order.Status.DisplayName())

	_, err = NewRestockOrder("CAF-RO-002", decimal.RequireFromString("12.5"), "  ")
	assert.ErrorIs(t, err, ErrInvalidSupplier)

	_, err = NewRestockOrder("CAF-RO-002", decimal.Zero, "Proveedor Base")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
