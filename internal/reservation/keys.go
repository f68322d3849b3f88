// Package reservation implements the per-class ticket lifecycle
// (POOLED -> AVAILABLE -> RESERVED -> SOLD) as atomic Redis scripts, a typed
// API over them, the purchase coordinator, and the expiry sweeper.
package reservation

import (
	"fmt"

	"github.com/ankitaduttagupta/ticketing-service/internal/model"
)

// Ticket is the value type every reservation-core operation returns;
// aliased to model.Ticket so the wire shape (json:"ticket_id") stays in
// one place shared with the catalog and handler layers.
type Ticket = model.Ticket

// ClassKeys is the set of container names for one class. All five share the
// {class:<id>} hash tag so a Redis Cluster deployment colocates them on a
// single slot, which is required for the multi-key EVAL scripts in
// scripts.go to be legal.
type ClassKeys struct {
	Available   string
	Reserved    string
	Sold        string
	Pool        string
	ReservedExp string
}

// NewClassKeys derives the container names for class id. No caller outside
// this package should compute these names directly.
func NewClassKeys(classID int) ClassKeys {
	tag := fmt.Sprintf("{class:%d}", classID)
	return ClassKeys{
		Available:   tag + ":available",
		Reserved:    tag + ":reserved",
		Sold:        tag + ":sold",
		Pool:        tag + ":pool",
		ReservedExp: tag + ":reserved_exp",
	}
}
