package reservation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedPrice(cents uint32) func(int) (uint32, error) {
	return func(int) (uint32, error) { return cents, nil }
}

func TestPurchaseHappyPath(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 10, "a", "b", "c")

	coord := NewCoordinator(api, &StaticPaymentClient{}, fixedPrice(500))
	result, err := coord.Purchase(ctx, 10, "player-1", 2)
	require.NoError(t, err)
	require.Len(t, result.Tickets, 2)

	avail, reserved, sold, err := api.Counts(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), avail)
	require.Equal(t, int64(0), reserved)
	require.Equal(t, int64(2), sold)
}

func TestPurchaseRejectsOverdraw(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 11, "a")

	coord := NewCoordinator(api, &StaticPaymentClient{}, fixedPrice(500))
	_, err := coord.Purchase(ctx, 11, "player-1", 5)
	require.ErrorIs(t, err, ErrInsufficientInventory)

	// The partial reservation must have been rolled back, leaving the
	// single ticket available for a later buyer.
	avail, err := api.AvailableCount(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, int64(1), avail)
}

func TestPurchaseRollsBackOnPaymentDecline(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 12, "a", "b")

	coord := NewCoordinator(api, &StaticPaymentClient{Deny: true}, fixedPrice(500))
	_, err := coord.Purchase(ctx, 12, "player-1", 2)
	require.ErrorIs(t, err, ErrPaymentDeclined)

	avail, reserved, sold, err := api.Counts(ctx, 12)
	require.NoError(t, err)
	require.Equal(t, int64(2), avail)
	require.Equal(t, int64(0), reserved)
	require.Equal(t, int64(0), sold)
}

func TestPurchaseRejectsZeroCount(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 13, "a")

	coord := NewCoordinator(api, &StaticPaymentClient{}, fixedPrice(500))
	_, err := coord.Purchase(ctx, 13, "player-1", 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPurchaseOnEmptyAvailableIsRejected(t *testing.T) {
	api, _, _ := newTestAPI(t)
	ctx := context.Background()

	coord := NewCoordinator(api, &StaticPaymentClient{}, fixedPrice(500))
	_, err := coord.Purchase(ctx, 14, "player-1", 1)
	require.ErrorIs(t, err, ErrInsufficientInventory)
}
