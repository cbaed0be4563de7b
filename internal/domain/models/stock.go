package models

import "time"

// StockRecord mirrors one inventory item as the upstream stock API returns it.
// The server owns every field; the client only caches pages of these and
// replaces them wholesale on each fetch. ID is empty until the first
// successful create response and immutable afterwards.
type StockRecord struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Price     *int64     `json:"price,omitempty"`
	Quantity  *int64     `json:"quantity,omitempty"`
	StoreID   string     `json:"store_id,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PriceValue returns the price or 0 when the upstream omitted it.
func (s StockRecord) PriceValue() int64 {
	if s.Price == nil {
		return 0
	}
	return *s.Price
}

// QuantityValue returns the quantity or 0 when the upstream omitted it.
func (s StockRecord) QuantityValue() int64 {
	if s.Quantity == nil {
		return 0
	}
	return *s.Quantity
}

// StockPayload is the request body shared by create and update calls.
type StockPayload struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	StoreID  string `json:"store_id"`
	UserID   string `json:"user_id"`
}
