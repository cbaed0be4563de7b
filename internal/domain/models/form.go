package models

import "strconv"

// NumericInput is the normalized representation of a numeric form field.
// Raw keeps the original text when it could not be parsed so the
// validation layer can report a "must be a number" violation instead of
// silently dropping the input.
type NumericInput struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
	Raw   string  `json:"raw,omitempty"`
}

// NormalizeNumeric coerces raw text from a numeric input into a
// NumericInput. Domain: "" becomes 0, a numeric string becomes its parsed
// value, anything else passes through as invalid with the raw text kept.
func NormalizeNumeric(raw string) NumericInput {
	if raw == "" {
		return NumericInput{Value: 0, Valid: true, Raw: raw}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return NumericInput{Valid: false, Raw: raw}
	}

	return NumericInput{Value: v, Valid: true, Raw: raw}
}

// Numeric builds an already-valid NumericInput, used when initializing a
// form from an existing record.
func Numeric(v float64) NumericInput {
	return NumericInput{Value: v, Valid: true}
}

// StockFormValues holds the editable subset of a stock record while a
// create or edit dialog is open. It never carries the record id or the
// server-assigned timestamps.
type StockFormValues struct {
	ProductName string       `json:"productName"`
	Price       NumericInput `json:"price"`
	Quantity    NumericInput `json:"quantity"`
}

// DefaultStockFormValues returns the empty form: no name, zero price,
// zero quantity.
func DefaultStockFormValues() StockFormValues {
	return StockFormValues{
		ProductName: "",
		Price:       Numeric(0),
		Quantity:    Numeric(0),
	}
}

// FromRecord seeds form values from a record's editable fields.
func FromRecord(r StockRecord) StockFormValues {
	return StockFormValues{
		ProductName: r.Name,
		Price:       Numeric(float64(r.PriceValue())),
		Quantity:    Numeric(float64(r.QuantityValue())),
	}
}
