// Package model holds small value types shared across the reservation,
// catalog and handler layers. It intentionally carries no behavior beyond
// JSON tags — business logic lives in
// internal/reservation and internal/catalog.
package model

// Ticket is a single purchasable unit returned to a buyer. Payload is the
// opaque, class-defined content seeded by the class owner (seat label,
// raffle number, whatever the class represents); the reservation core never
// interprets it.
type Ticket struct {
	ID      string `json:"ticket_id"`
	Payload string `json:"payload,omitempty"`
}

// Class describes a bounded inventory partition. UnitPriceCents is
// configured per class rather than hard-coded.
type Class struct {
	ID             int    `json:"class_id"`
	Name           string `json:"name"`
	UnitPriceCents uint32 `json:"unit_price_cents"`
	SeededCount    int    `json:"seeded_count"`
}

// Counts reports the current size of each disjoint container for a class,
// the body shape of GET /counts/{class}.
type Counts struct {
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Sold      int `json:"sold"`
}
