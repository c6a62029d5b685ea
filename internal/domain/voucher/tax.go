package voucher

import "github.com/shopspring/decimal"

// TaxChargeType selects how a tax row's base amount is computed, per
// §4.8's "applies tax rows in order" text.
type TaxChargeType string

const (
	ChargeOnNetTotal         TaxChargeType = "On Net Total"
	ChargeOnPreviousRowTotal TaxChargeType = "On Previous Row Total"
	ChargeActual             TaxChargeType = "Actual"
)

// TaxRow is one line of a document's tax child table, evaluated in
// document order.
type TaxRow struct {
	AccountHead string
	ChargeType  TaxChargeType
	Rate        decimal.Decimal // percentage, e.g. 18 for 18%; ignored for ChargeActual
	TaxAmount   decimal.Decimal // pre-set amount; used as-is for ChargeActual, computed otherwise
}

// ApplyTaxes computes each row's TaxAmount in order and returns
// (totalTaxes, grandTotal), per §4.8: `applies tax rows in order (On Net
// Total, On Previous Row Total, Actual) to yield total_taxes and
// grand_total`.
func ApplyTaxes(netTotal decimal.Decimal, rows []TaxRow) (totalTaxes, grandTotal decimal.Decimal) {
	runningTotal := netTotal
	totalTaxes = decimal.Zero
	for i := range rows {
		row := &rows[i]
		switch row.ChargeType {
		case ChargeOnNetTotal:
			row.TaxAmount = netTotal.Mul(row.Rate).Div(decimal.NewFromInt(100)).Round(6)
		case ChargeOnPreviousRowTotal:
			row.TaxAmount = runningTotal.Mul(row.Rate).Div(decimal.NewFromInt(100)).Round(6)
		case ChargeActual:
			// row.TaxAmount is taken as supplied
		}
		totalTaxes = totalTaxes.Add(row.TaxAmount)
		runningTotal = runningTotal.Add(row.TaxAmount)
	}
	grandTotal = netTotal.Add(totalTaxes)
	return totalTaxes, grandTotal
}
