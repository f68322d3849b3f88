// Package catalog persists admin-facing class metadata (display name, unit
// price, seeded count) in MySQL and performs the trusted seeding operation
// that populates a class's Redis pool/available containers. Seeding is a
// trusted admin operation; this package is its concrete home.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ankitaduttagupta/ticketing-service/internal/model"
	"github.com/ankitaduttagupta/ticketing-service/internal/reservation"
)

// ErrClassNotFound is returned when a class id has no catalog row.
var ErrClassNotFound = errors.New("class not found")

// ErrClassExists is returned by CreateClass on a duplicate class id.
var ErrClassExists = errors.New("class already exists")

// Repo provides CRUD access to the classes table plus the seeding
// operation.
type Repo struct {
	db  *sql.DB
	rdb *redis.Client
}

// NewRepo returns a Repo bound to db (class metadata) and rdb (ticket
// pool/available containers).
func NewRepo(db *sql.DB, rdb *redis.Client) *Repo {
	return &Repo{db: db, rdb: rdb}
}

// CreateClass inserts a new class row. UnitPriceCents must be the
// configured price used by the purchase coordinator.
func (r *Repo) CreateClass(ctx context.Context, classID int, name string, unitPriceCents uint32) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO classes (id, name, unit_price_cents, seeded_count, created_at) VALUES (?, ?, ?, 0, ?)`,
		classID, name, unitPriceCents, time.Now().UTC(),
	)
	if err != nil {
		if isDuplicateKeyErr(err) {
			return ErrClassExists
		}
		return err
	}
	return nil
}

// GetClass returns the catalog row for classID.
func (r *Repo) GetClass(ctx context.Context, classID int) (model.Class, error) {
	var c model.Class
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, unit_price_cents, seeded_count FROM classes WHERE id = ?`,
		classID,
	).Scan(&c.ID, &c.Name, &c.UnitPriceCents, &c.SeededCount)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Class{}, ErrClassNotFound
	}
	if err != nil {
		return model.Class{}, err
	}
	return c, nil
}

// UnitPriceCents is a lookup callback suitable for reservation.Coordinator.
func (r *Repo) UnitPriceCents(ctx context.Context) func(classID int) (uint32, error) {
	return func(classID int) (uint32, error) {
		c, err := r.GetClass(ctx, classID)
		if err != nil {
			return 0, err
		}
		return c.UnitPriceCents, nil
	}
}

// TicketInput is one row of the preload request body (POST
// /preload/{class}).
type TicketInput struct {
	TicketID string                 `json:"ticket_id"`
	Fields   map[string]interface{} `json:"-"`
}

// Seed writes tickets into the class's Redis pool and available containers
// and records the seeded count in MySQL. Payloads are the JSON-encoded
// opaque fields supplied by the admin caller; pool entries are immutable
// once seeded.
func (r *Repo) Seed(ctx context.Context, classID int, tickets []TicketInput, raw []json.RawMessage) (int, error) {
	if len(tickets) == 0 {
		return 0, nil
	}
	k := reservation.NewClassKeys(classID)
	pipe := r.rdb.Pipeline()
	for i, t := range tickets {
		payload := "{}"
		if i < len(raw) && len(raw[i]) > 0 {
			payload = string(raw[i])
		}
		pipe.HSetNX(ctx, k.Pool, t.TicketID, payload)
		pipe.SAdd(ctx, k.Available, t.TicketID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE classes SET seeded_count = seeded_count + ? WHERE id = ?`,
		len(tickets), classID,
	); err != nil {
		return 0, err
	}
	return len(tickets), nil
}

func isDuplicateKeyErr(err error) bool {
	// go-sql-driver/mysql reports duplicate primary/unique key violations
	// with error code 1062 embedded in the message; matching on it here
	// avoids a direct dependency on the driver's internal error type.
	return err != nil && containsDuplicateCode(err.Error())
}

func containsDuplicateCode(msg string) bool {
	for i := 0; i+4 <= len(msg); i++ {
		if msg[i:i+4] == "1062" {
			return true
		}
	}
	return false
}
