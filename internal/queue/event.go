// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketSoldEvent is published after every confirmed purchase. It contains
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying Redis or the catalog database.
type TicketSoldEvent struct {
	ClassID          int      `json:"class_id"`
	PlayerID         string   `json:"player_id"`
	TicketIDs        []string `json:"ticket_ids"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
