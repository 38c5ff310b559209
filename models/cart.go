package models

import "github.com/shopspring/decimal"

// CartSummary is the cart as shown to a reader: items in insertion order and
// the total in the fixed display currency.
type CartSummary struct {
	Items        []Item          `json:"items"`
	Count        int             `json:"count"`
	TotalCents   int64           `json:"total_cents"`
	Total        decimal.Decimal `json:"total" swaggertype:"number"`
	TotalDisplay string          `json:"total_display"`
}

// Snapshot is an immutable copy of a session's catalog state.
type Snapshot struct {
	Version   uint64 `json:"version"`
	Selection *Item  `json:"selection"`
	Cart      []Item `json:"cart"`
	Name      string `json:"name"`
}

type SessionView struct {
	SessionID string      `json:"session_id"`
	Version   uint64      `json:"version"`
	Selection *Item       `json:"selection"`
	Cart      CartSummary `json:"cart"`
	Name      string      `json:"name"`
}
