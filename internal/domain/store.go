package domain

import "github.com/shopspring/decimal"

// DefaultLanguage is the fallback language when neither the caller nor
// the store supplies one.
const DefaultLanguage = "en-US"

// Store is the sales channel a cart belongs to.
type Store struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	DefaultCurrency       string `json:"defaultCurrency"`
	DefaultLanguage       string `json:"defaultLanguage,omitempty"`
	TaxCalculationEnabled bool   `json:"taxCalculationEnabled"`
}

// Currency is store-global reference data. A cart-scoped copy is tagged
// with the cart's effective display language via WithLanguage.
type Currency struct {
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Symbol           string          `json:"symbol"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	DecimalDigits    int32           `json:"decimalDigits"`
	CustomFormatting string          `json:"customFormatting,omitempty"`
	LanguageCode     string          `json:"languageCode,omitempty"`
}

// WithLanguage returns a clone of the currency tagged with the language.
func (c Currency) WithLanguage(languageCode string) Currency {
	c.LanguageCode = languageCode
	return c
}

// Round rounds amount half-up to the currency's decimal digits.
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(c.DecimalDigits)
}
