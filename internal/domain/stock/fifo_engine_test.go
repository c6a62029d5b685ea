package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLayer(t *testing.T, qty, rate float64, postingTs time.Time) *StockFifoLayer {
	t.Helper()
	layer, err := NewStockFifoLayer(
		uuid.New(), uuid.New(), uuid.New(),
		nil, nil,
		decimal.NewFromFloat(qty), decimal.NewFromFloat(rate),
		postingTs, "Purchase Receipt", "PR-0001", nil,
	)
	require.NoError(t, err)
	return layer
}

func TestConsumeFifo_OldestLayerFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := newTestLayer(t, 10, 5, base)
	newer := newTestLayer(t, 10, 7, base.Add(24*time.Hour))

	result, err := ConsumeFifo([]*StockFifoLayer{newer, older}, decimal.NewFromInt(12))
	require.NoError(t, err)
	require.True(t, result.FullyFulfilled)
	require.Len(t, result.Consumptions, 2)

	assert.Equal(t, older.ID, result.Consumptions[0].LayerID)
	assert.True(t, result.Consumptions[0].DeductedQty.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, newer.ID, result.Consumptions[1].LayerID)
	assert.True(t, result.Consumptions[1].DeductedQty.Equal(decimal.NewFromInt(2)))

	expectedCost := decimal.NewFromInt(10).Mul(decimal.NewFromInt(5)).Add(decimal.NewFromInt(2).Mul(decimal.NewFromInt(7)))
	assert.True(t, result.TotalCost.Equal(expectedCost))
}

func TestConsumeFifo_InsufficientLayers(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	layer := newTestLayer(t, 5, 5, base)

	result, err := ConsumeFifo([]*StockFifoLayer{layer}, decimal.NewFromInt(8))
	require.ErrorIs(t, err, ErrInsufficientFifoLayers)
	require.NotNil(t, result)
	assert.True(t, result.Shortfall.Equal(decimal.NewFromInt(3)))
	assert.False(t, result.FullyFulfilled)
}

func TestConsumeFifo_SkipsCancelledAndExhaustedLayers(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cancelled := newTestLayer(t, 10, 5, base)
	require.NoError(t, cancelled.Cancel())
	exhausted := newTestLayer(t, 10, 5, base.Add(time.Hour))
	exhausted.QtyRemaining = decimal.Zero
	usable := newTestLayer(t, 6, 9, base.Add(2*time.Hour))

	result, err := ConsumeFifo([]*StockFifoLayer{cancelled, exhausted, usable}, decimal.NewFromInt(6))
	require.NoError(t, err)
	require.Len(t, result.Consumptions, 1)
	assert.Equal(t, usable.ID, result.Consumptions[0].LayerID)
}

func TestConsumeFefo_EarliestExpiryFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	laterExpiry := base.AddDate(0, 6, 0)
	soonerExpiry := base.AddDate(0, 1, 0)

	batchSoon := uuid.New()
	batchLate := uuid.New()

	layerLate, err := NewStockFifoLayer(uuid.New(), uuid.New(), uuid.New(), nil, &batchLate,
		decimal.NewFromInt(10), decimal.NewFromInt(5), base, "Purchase Receipt", "PR-0002", nil)
	require.NoError(t, err)
	layerSoon, err := NewStockFifoLayer(uuid.New(), uuid.New(), uuid.New(), nil, &batchSoon,
		decimal.NewFromInt(10), decimal.NewFromInt(6), base.Add(time.Hour), "Purchase Receipt", "PR-0003", nil)
	require.NoError(t, err)

	expiry := map[uuid.UUID]*time.Time{
		batchSoon: &soonerExpiry,
		batchLate: &laterExpiry,
	}

	result, err := ConsumeFefo([]*StockFifoLayer{layerLate, layerSoon}, expiry, decimal.NewFromInt(12))
	require.NoError(t, err)
	require.Len(t, result.Consumptions, 2)
	assert.Equal(t, layerSoon.ID, result.Consumptions[0].LayerID)
	assert.Equal(t, layerLate.ID, result.Consumptions[1].LayerID)
}

func TestApplyConsumptions_MutatesLayersInPlace(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	layer := newTestLayer(t, 10, 5, base)

	result, err := ConsumeFifo([]*StockFifoLayer{layer}, decimal.NewFromInt(4))
	require.NoError(t, err)

	require.NoError(t, ApplyConsumptions([]*StockFifoLayer{layer}, result))
	assert.True(t, layer.QtyRemaining.Equal(decimal.NewFromInt(6)))
}

func TestConsumeFifo_RejectsNonPositiveDemand(t *testing.T) {
	_, err := ConsumeFifo(nil, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ConsumeFifo(nil, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
