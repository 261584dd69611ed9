package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the persisted cart record owned by the aggregate. A cart is
// uniquely identified by its id once persisted, and before that by the
// natural key (store, customer, name, type, currency).
type Cart struct {
	ID           string     `json:"id"`
	StoreID      string     `json:"storeId"`
	CustomerID   string     `json:"customerId"`
	CustomerName string     `json:"customerName,omitempty"`
	Name         string     `json:"name"`
	Type         string     `json:"type,omitempty"`
	Currency     string     `json:"currency"`
	LanguageCode string     `json:"languageCode,omitempty"`
	Comment      string     `json:"comment,omitempty"`
	IsAnonymous  bool       `json:"isAnonymous,omitempty"`
	Items        []LineItem `json:"lineItems"`
	Shipments    []Shipment `json:"shipments"`
	Payments     []Payment  `json:"payments"`
	Coupons      []string   `json:"coupons"`
	// DiscountAmount holds the cart-level promotion discount; line item and
	// shipment discounts live on their own records.
	DiscountAmount decimal.Decimal     `json:"discountAmount"`
	TaxDetails     []TaxDetail         `json:"taxDetails"`
	Failures       []ValidationFailure `json:"validationFailures,omitempty"`
	Totals         CartTotals          `json:"totals"`
	CreatedAt      time.Time           `json:"createdAt"`
	ModifiedAt     time.Time           `json:"modifiedAt"`
}

// IsTransient reports whether the cart has not been persisted yet.
func (c *Cart) IsTransient() bool {
	return c.ID == ""
}

// ItemByID returns the line item with the given id, or nil.
func (c *Cart) ItemByID(lineItemID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].ID == lineItemID {
			return &c.Items[i]
		}
	}
	return nil
}

// ItemByProduct returns the line item for the given product, or nil.
func (c *Cart) ItemByProduct(productID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// HasCoupon reports whether code is applied, compared case-insensitively.
func (c *Cart) HasCoupon(code string) bool {
	for _, coupon := range c.Coupons {
		if strings.EqualFold(coupon, code) {
			return true
		}
	}
	return false
}

// LineItem is a cart row for one product. Quantity and price changes are
// rejected for read-only items, whose economics come from an
// externally-finalized source.
type LineItem struct {
	ID                string            `json:"id"`
	ProductID         string            `json:"productId"`
	SKU               string            `json:"sku,omitempty"`
	Name              string            `json:"name,omitempty"`
	Quantity          int               `json:"quantity"`
	ListPrice         decimal.Decimal   `json:"listPrice"`
	SalePrice         decimal.Decimal   `json:"salePrice"`
	PlacedPrice       decimal.Decimal   `json:"placedPrice"`
	ExtendedPrice     decimal.Decimal   `json:"extendedPrice"`
	DiscountAmount    decimal.Decimal   `json:"discountAmount"`
	TaxTotal          decimal.Decimal   `json:"taxTotal"`
	TaxPercentRate    decimal.Decimal   `json:"taxPercentRate"`
	Note              string            `json:"note,omitempty"`
	IsReadOnly        bool              `json:"isReadOnly,omitempty"`
	DynamicProperties map[string]string `json:"dynamicProperties,omitempty"`
}

// Shipment is a delivery selection on the cart. Currency is always
// inherited from the owning cart at attach time.
type Shipment struct {
	ID              string          `json:"id"`
	MethodCode      string          `json:"methodCode,omitempty"`
	MethodOption    string          `json:"methodOption,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	Price           decimal.Decimal `json:"price"`
	PriceWithTax    decimal.Decimal `json:"priceWithTax"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	Fee             decimal.Decimal `json:"fee"`
	TaxTotal        decimal.Decimal `json:"taxTotal"`
	TaxPercentRate  decimal.Decimal `json:"taxPercentRate"`
	DeliveryAddress *Address        `json:"deliveryAddress,omitempty"`
	Items           []ShipmentItem  `json:"items,omitempty"`
}

// HasSameMethod reports whether the shipment selects the rate's method and
// option, compared case-insensitively.
func (s *Shipment) HasSameMethod(rate ShippingRate) bool {
	return strings.EqualFold(s.MethodCode, rate.Method.Code) &&
		strings.EqualFold(s.MethodOption, rate.OptionName)
}

// ShipmentItem binds a line item to a shipment with a fulfilled quantity.
type ShipmentItem struct {
	LineItemID string `json:"lineItemId"`
	Quantity   int    `json:"quantity"`
}

// Payment is a payment selection on the cart.
type Payment struct {
	ID             string          `json:"id"`
	GatewayCode    string          `json:"gatewayCode,omitempty"`
	Currency       string          `json:"currency,omitempty"`
	Price          decimal.Decimal `json:"price"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	PriceWithTax   decimal.Decimal `json:"priceWithTax"`
	TaxTotal       decimal.Decimal `json:"taxTotal"`
	TaxPercentRate decimal.Decimal `json:"taxPercentRate"`
	BillingAddress *Address        `json:"billingAddress,omitempty"`
}

// Address is a delivery or billing address. Key references a profile
// address record and must be cleared when the address is attached to a
// cart, otherwise two carts could collide on the same profile key.
type Address struct {
	Key         string `json:"key,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Line1       string `json:"line1,omitempty"`
	City        string `json:"city,omitempty"`
	RegionID    string `json:"regionId,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// TaxDetail is one applied tax line on the cart.
type TaxDetail struct {
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// CartTotals is the derived money set. Every component total carries a
// tax-exclusive and a tax-inclusive variant; Total is the grand total with
// tax included.
type CartTotals struct {
	SubTotal             decimal.Decimal `json:"subTotal"`
	SubTotalWithTax      decimal.Decimal `json:"subTotalWithTax"`
	ShippingTotal        decimal.Decimal `json:"shippingTotal"`
	ShippingTotalWithTax decimal.Decimal `json:"shippingTotalWithTax"`
	PaymentTotal         decimal.Decimal `json:"paymentTotal"`
	PaymentTotalWithTax  decimal.Decimal `json:"paymentTotalWithTax"`
	HandlingTotal        decimal.Decimal `json:"handlingTotal"`
	HandlingTotalWithTax decimal.Decimal `json:"handlingTotalWithTax"`
	DiscountTotal        decimal.Decimal `json:"discountTotal"`
	DiscountTotalWithTax decimal.Decimal `json:"discountTotalWithTax"`
	TaxTotal             decimal.Decimal `json:"taxTotal"`
	Total                decimal.Decimal `json:"total"`
}
