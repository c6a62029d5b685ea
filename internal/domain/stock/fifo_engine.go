package stock

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LayerConsumption is the result of consuming from a single FIFO layer.
type LayerConsumption struct {
	LayerID         uuid.UUID
	BatchID         *uuid.UUID
	LocationID      *uuid.UUID
	DeductedQty     decimal.Decimal
	IncomingRate    decimal.Decimal
	Cost            decimal.Decimal
	RemainingInLayer decimal.Decimal
	FullyConsumed   bool
}

// ConsumptionResult is the outcome of walking layers to satisfy a demand,
// generalizing BatchOutboundResult to the append-only layer model.
type ConsumptionResult struct {
	Consumptions        []LayerConsumption
	TotalConsumed        decimal.Decimal
	TotalCost            decimal.Decimal
	WeightedAverageCost  decimal.Decimal
	Shortfall            decimal.Decimal
	FullyFulfilled       bool
}

// ConsumeFifo walks layers oldest-PostingTs-first, breaking ties by layer
// ID, consuming up to demand. It does not mutate the layers;
// callers apply the returned consumptions via ApplyConsumptions inside the
// same transaction that persists the resulting StockLedgerEntry rows.
func ConsumeFifo(layers []*StockFifoLayer, demand decimal.Decimal) (*ConsumptionResult, error) {
	if demand.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}
	available := filterAvailableLayers(layers)
	sorted := make([]*StockFifoLayer, len(available))
	copy(sorted, available)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].PostingTs.Equal(sorted[j].PostingTs) {
			return sorted[i].PostingTs.Before(sorted[j].PostingTs)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	return consumeSorted(demand, sorted)
}

// ConsumeFefo walks layers earliest-batch-expiry-first, falling back to
// FIFO order for layers whose batch has no expiry. batchExpiry supplies the
// expiry date for each layer's BatchID (nil BatchID or a missing map entry
// is treated as no expiry).
func ConsumeFefo(layers []*StockFifoLayer, batchExpiry map[uuid.UUID]*time.Time, demand decimal.Decimal) (*ConsumptionResult, error) {
	if demand.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}
	available := filterAvailableLayers(layers)
	sorted := make([]*StockFifoLayer, len(available))
	copy(sorted, available)

	expiryOf := func(l *StockFifoLayer) *time.Time {
		if l.BatchID == nil {
			return nil
		}
		return batchExpiry[*l.BatchID]
	}

	sort.Slice(sorted, func(i, j int) bool {
		ei, ej := expiryOf(sorted[i]), expiryOf(sorted[j])
		if ei != nil && ej != nil {
			if !ei.Equal(*ej) {
				return ei.Before(*ej)
			}
		} else if ei != nil {
			return true
		} else if ej != nil {
			return false
		}
		if !sorted[i].PostingTs.Equal(sorted[j].PostingTs) {
			return sorted[i].PostingTs.Before(sorted[j].PostingTs)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	return consumeSorted(demand, sorted)
}

// filterAvailableLayers excludes cancelled and fully-consumed layers.
func filterAvailableLayers(layers []*StockFifoLayer) []*StockFifoLayer {
	out := make([]*StockFifoLayer, 0, len(layers))
	for _, l := range layers {
		if !l.IsCancelled && l.QtyRemaining.GreaterThan(decimal.Zero) {
			out = append(out, l)
		}
	}
	return out
}

func consumeSorted(demand decimal.Decimal, sorted []*StockFifoLayer) (*ConsumptionResult, error) {
	consumptions := make([]LayerConsumption, 0)
	remaining := demand
	totalConsumed := decimal.Zero
	totalCost := decimal.Zero

	for _, layer := range sorted {
		if remaining.IsZero() {
			break
		}
		deductAmount := decimal.Min(remaining, layer.QtyRemaining)
		if deductAmount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		remainingInLayer := layer.QtyRemaining.Sub(deductAmount)
		cost := deductAmount.Mul(layer.IncomingRate)

		consumptions = append(consumptions, LayerConsumption{
			LayerID:          layer.ID,
			BatchID:          layer.BatchID,
			LocationID:       layer.LocationID,
			DeductedQty:      deductAmount,
			IncomingRate:     layer.IncomingRate,
			Cost:             cost,
			RemainingInLayer: remainingInLayer,
			FullyConsumed:    remainingInLayer.IsZero(),
		})

		totalConsumed = totalConsumed.Add(deductAmount)
		totalCost = totalCost.Add(cost)
		remaining = remaining.Sub(deductAmount)
	}

	var weightedAvg decimal.Decimal
	if totalConsumed.GreaterThan(decimal.Zero) {
		weightedAvg = totalCost.Div(totalConsumed).Round(6)
	}
	if remaining.GreaterThan(decimal.Zero) {
		return &ConsumptionResult{
			Consumptions:        consumptions,
			TotalConsumed:       totalConsumed,
			TotalCost:           totalCost,
			WeightedAverageCost: weightedAvg,
			Shortfall:           remaining,
			FullyFulfilled:      false,
		}, ErrInsufficientFifoLayers
	}

	return &ConsumptionResult{
		Consumptions:        consumptions,
		TotalConsumed:        totalConsumed,
		TotalCost:            totalCost,
		WeightedAverageCost:  weightedAvg,
		Shortfall:            decimal.Zero,
		FullyFulfilled:       true,
	}, nil
}

// ApplyConsumptions mutates the given layers in place per result, returning
// an error if a referenced layer is missing from the map (should never
// happen when layers is the same slice passed to Consume{Fifo,Fefo}).
func ApplyConsumptions(layers []*StockFifoLayer, result *ConsumptionResult) error {
	byID := make(map[uuid.UUID]*StockFifoLayer, len(layers))
	for _, l := range layers {
		byID[l.ID] = l
	}
	for _, c := range result.Consumptions {
		layer, ok := byID[c.LayerID]
		if !ok {
			return ErrInsufficientFifoLayers
		}
		taken := layer.Consume(c.DeductedQty)
		if !taken.Equal(c.DeductedQty) {
			return ErrInsufficientFifoLayers
		}
	}
	return nil
}
