package reservation

import "errors"

// ErrInsufficientInventory is returned when reserveN could not fill the
// requested count. Any partial reservation has already been rolled back
// before this error reaches the caller.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// ErrPaymentDeclined is returned when the payment collaborator returned
// false or errored. The reservation has already been rolled back.
var ErrPaymentDeclined = errors.New("payment declined")

// ErrFinalizeMismatch is returned when confirm's reported count diverges
// from the number of ids the coordinator holds. Kept as a defensive guard:
// the underlying script cannot actually detect a partial move (it echoes
// #ARGV), so in practice this branch only fires on a store-level anomaly,
// not a lease race — the lease race itself is closed by the
// sweeper/coordinator timing, not by this check.
var ErrFinalizeMismatch = errors.New("finalize mismatch")

// ErrStoreUnavailable is returned when the store cannot be reached. No
// local state has changed when this is returned.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrInvalidArgument is returned by API methods on bad input (n < 1,
// lease_seconds < 1, empty id list where one is required).
var ErrInvalidArgument = errors.New("invalid argument")
