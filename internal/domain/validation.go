package domain

// Validation failure kinds accumulated on the cart.
const (
	FailureKindProductUnavailable   = "product_unavailable"
	FailureKindProductUnbuyable     = "product_unbuyable"
	FailureKindQuantityInvalid      = "quantity_invalid"
	FailureKindQuantityInsufficient = "quantity_insufficient"
	FailureKindPriceChanged         = "price_changed"
	FailureKindShipmentUnavailable  = "shipment_unavailable"
	FailureKindShipmentPriceChanged = "shipment_price_changed"
	FailureKindPaymentUnavailable   = "payment_unavailable"
)

// ValidationFailure is a non-fatal business rule violation recorded on the
// cart. Failures are values, not errors; only the save path treats strict
// failures as blocking.
type ValidationFailure struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
