package voucher

import (
	"fmt"
	"time"
)

// Prefix is a voucher-kind name-generation prefix, per §6's identifier
// format table. §6 lists both `SR` and `SRV` alongside `RECON`; the
// fourteen orchestrated voucher kinds named in §4.8 account for only one
// reservation-style prefix and one reconciliation-style prefix, so `SR`
// is treated as a shorthand alias of `SRV` rather than a sixteenth kind.
type Prefix string

const (
	PrefixPurchaseReceipt     Prefix = "PR"
	PrefixDeliveryNote        Prefix = "DN"
	PrefixStockTransfer       Prefix = "ST"
	PrefixStockReconciliation Prefix = "RECON"
	PrefixStockReservation    Prefix = "SRV"
	PrefixPickList            Prefix = "PL"
	PrefixPackList            Prefix = "PK"
	PrefixSalesOrder          Prefix = "SO"
	PrefixPurchaseOrder       Prefix = "PO"
	PrefixInvoice             Prefix = "INV"
	PrefixPurchaseInvoice     Prefix = "PINV"
	PrefixPaymentEntry        Prefix = "PE"
	PrefixJournalEntry        Prefix = "JE"
	PrefixQuotation           Prefix = "QTN"
	PrefixBankTransaction     Prefix = "BT"
)

// GenerateVoucherName forms a name of `PREFIX-NNNNNN`, where the suffix is
// the least-significant 6 digits of the current millisecond epoch, per
// §6. Collisions across the same millisecond window are resolved by the
// document table's unique constraint on name, same as the teacher's
// upsert-by-code masters.
func GenerateVoucherName(prefix Prefix, now time.Time) string {
	millis := now.UnixMilli()
	suffix := millis % 1_000_000
	return fmt.Sprintf("%s-%06d", prefix, suffix)
}
