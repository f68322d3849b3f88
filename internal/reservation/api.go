package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// API is a typed façade over the four atomic scripts. It validates input,
// derives the key set for a class via NewClassKeys, and decodes script
// results into Go values. A single API value is safe for concurrent use —
// all shared state lives in Redis, not in this struct.
type API struct {
	rdb *redis.Client
}

// NewAPI returns an API bound to rdb. Scripts are lazily loaded by go-redis
// on first Run and cached by SHA thereafter; no explicit warm-up call is
// required, though callers that want to fail fast at startup may call
// Ping via rdb directly.
func NewAPI(rdb *redis.Client) *API {
	return &API{rdb: rdb}
}

// ReserveN reserves up to n available ids for class, leasing each for
// leaseSeconds. It returns between 0 and n tickets — fewer than n is a
// legal outcome the caller must handle.
func (a *API) ReserveN(ctx context.Context, classID int, n int, leaseSeconds int) ([]Ticket, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n must be >= 1, got %d", ErrInvalidArgument, n)
	}
	if leaseSeconds < 1 {
		return nil, fmt.Errorf("%w: lease_seconds must be >= 1, got %d", ErrInvalidArgument, leaseSeconds)
	}
	k := NewClassKeys(classID)
	expiry := time.Now().Unix() + int64(leaseSeconds)

	raw, err := reserveNScript.Run(ctx, a.rdb,
		[]string{k.Available, k.Reserved, k.Pool, k.ReservedExp},
		n, expiry,
	).Slice()
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("reserve_n: odd-length result (%d elements)", len(raw))
	}
	tickets := make([]Ticket, 0, len(raw)/2)
	for i := 0; i < len(raw); i += 2 {
		id, _ := raw[i].(string)
		payload, _ := raw[i+1].(string)
		tickets = append(tickets, Ticket{ID: id, Payload: payload})
	}
	return tickets, nil
}

// Confirm moves ids from reserved to sold, deleting their lease entries. It
// returns the argument count echoed by the script (see ErrFinalizeMismatch
// doc comment for why that is not an authoritative moved-count).
func (a *API) Confirm(ctx context.Context, classID int, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids must be non-empty", ErrInvalidArgument)
	}
	k := NewClassKeys(classID)
	args := toInterfaceSlice(ids)
	raw, err := confirmScript.Run(ctx, a.rdb,
		[]string{k.Reserved, k.Sold, k.ReservedExp},
		args...,
	).Int()
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	return raw, nil
}

// Rollback moves ids from reserved back to available, deleting their lease
// entries. Symmetric to Confirm.
func (a *API) Rollback(ctx context.Context, classID int, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids must be non-empty", ErrInvalidArgument)
	}
	k := NewClassKeys(classID)
	args := toInterfaceSlice(ids)
	raw, err := rollbackScript.Run(ctx, a.rdb,
		[]string{k.Reserved, k.Available, k.ReservedExp},
		args...,
	).Int()
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	return raw, nil
}

// Reclaim moves up to limit expired reservations (lease <= now) back to
// available, oldest expiry first, and returns the reclaimed ids.
func (a *API) Reclaim(ctx context.Context, classID int, limit int) ([]string, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be >= 1, got %d", ErrInvalidArgument, limit)
	}
	k := NewClassKeys(classID)
	now := time.Now().Unix()
	raw, err := reclaimExpiredScript.Run(ctx, a.rdb,
		[]string{k.Reserved, k.Available, k.ReservedExp},
		now, limit,
	).Slice()
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

// AvailableCount returns |available| for class, used by the coordinator's
// advisory pre-check — a cheap early rejection, not the authoritative
// check that ReserveN's atomic SPOP performs.
func (a *API) AvailableCount(ctx context.Context, classID int) (int64, error) {
	k := NewClassKeys(classID)
	n, err := a.rdb.SCard(ctx, k.Available).Result()
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	return n, nil
}

// Counts returns the size of all three observable containers for class,
// the body of GET /counts/{class}.
func (a *API) Counts(ctx context.Context, classID int) (available, reserved, sold int64, err error) {
	k := NewClassKeys(classID)
	pipe := a.rdb.Pipeline()
	availCmd := pipe.SCard(ctx, k.Available)
	resCmd := pipe.SCard(ctx, k.Reserved)
	soldCmd := pipe.SCard(ctx, k.Sold)
	if _, err = pipe.Exec(ctx); err != nil {
		return 0, 0, 0, wrapStoreErr(err)
	}
	return availCmd.Val(), resCmd.Val(), soldCmd.Val(), nil
}

func toInterfaceSlice(ids []string) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// wrapStoreErr normalizes any Redis-level failure (connection refused,
// context deadline, etc.) into ErrStoreUnavailable so handlers need only
// check one sentinel for the 503 case. redis.Nil never reaches here because
// none of the above commands return it on success paths worth special-casing.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
