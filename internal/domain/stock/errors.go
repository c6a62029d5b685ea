package stock

import "github.com/erp/stockledger/internal/domain/shared"

// Sentinel errors for the stock ledger core, one per failure named in the
// error taxonomy. Code strings are stable and safe to surface to callers.
var (
	ErrUnknownItem            = shared.NewKindedDomainError(shared.KindValidation, "UNKNOWN_ITEM", "item not found for tenant")
	ErrUnknownWarehouse       = shared.NewKindedDomainError(shared.KindValidation, "UNKNOWN_WAREHOUSE", "warehouse not found for tenant")
	ErrBatchOnNonBatchItem    = shared.NewKindedDomainError(shared.KindValidation, "BATCH_ON_NON_BATCH_ITEM", "batch supplied for an item that is not batch-tracked")
	ErrBatchExpiryMismatch    = shared.NewKindedDomainError(shared.KindValidation, "BATCH_EXPIRY_MISMATCH", "batch already exists with a different expiry date")
	ErrMissingUomConversion   = shared.NewKindedDomainError(shared.KindValidation, "MISSING_UOM_CONVERSION", "no active conversion factor for item and unit of measure")
	ErrInvalidQuantity        = shared.NewKindedDomainError(shared.KindValidation, "INVALID_QUANTITY", "quantity must be positive")
	ErrSerialCountMismatch    = shared.NewKindedDomainError(shared.KindValidation, "SERIAL_COUNT_MISMATCH", "serial number count does not match quantity")
	ErrDuplicateSerial        = shared.NewKindedDomainError(shared.KindValidation, "DUPLICATE_SERIAL", "duplicate serial number in input")
	ErrSerialAlreadyExists    = shared.NewKindedDomainError(shared.KindValidation, "SERIAL_ALREADY_EXISTS", "serial number already exists")
	ErrNoReceivingLocation    = shared.NewKindedDomainError(shared.KindValidation, "NO_RECEIVING_LOCATION", "no explicit or default receiving location")
	ErrNoPickingLocation      = shared.NewKindedDomainError(shared.KindValidation, "NO_PICKING_LOCATION", "no explicit or default picking location")
	ErrInsufficientFifoLayers = shared.NewKindedDomainError(shared.KindAvailability, "INSUFFICIENT_FIFO_LAYERS", "insufficient FIFO layer quantity to satisfy demand")
	ErrInsufficientBinStock   = shared.NewKindedDomainError(shared.KindAvailability, "INSUFFICIENT_BIN_STOCK", "insufficient stock at bin")
	ErrInsufficientReserved   = shared.NewKindedDomainError(shared.KindAvailability, "INSUFFICIENT_RESERVED", "insufficient reserved quantity to unreserve")
	ErrSerialNotAvailable     = shared.NewKindedDomainError(shared.KindAvailability, "SERIAL_NOT_AVAILABLE", "serial number is not available at the source bin")
	ErrBalanceWouldGoNegative = shared.NewKindedDomainError(shared.KindIntegrity, "BALANCE_WOULD_GO_NEGATIVE", "operation would drive a balance negative")
	ErrDownstreamConsumed     = shared.NewKindedDomainError(shared.KindStateConflict, "DOWNSTREAM_CONSUMED", "cannot cancel: downstream consumption has already occurred")
	ErrLayerCancelled         = shared.NewKindedDomainError(shared.KindStateConflict, "LAYER_CANCELLED", "FIFO layer is already cancelled")
	ErrReturnExceedsOriginal  = shared.NewKindedDomainError(shared.KindStateConflict, "RETURN_EXCEEDS_ORIGINAL", "cancellation would return more than the original layer quantity")
	ErrCancellationUnsupported = shared.NewKindedDomainError(shared.KindStateConflict, "CANCELLATION_UNSUPPORTED", "this voucher kind has no automatic reversal; a compensating document must be posted instead")
)
