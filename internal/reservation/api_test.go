package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*API, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewAPI(rdb), mr, rdb
}

func seedPool(t *testing.T, rdb *redis.Client, classID int, ids ...string) {
	t.Helper()
	k := NewClassKeys(classID)
	ctx := context.Background()
	for _, id := range ids {
		require.NoError(t, rdb.HSet(ctx, k.Pool, id, `{"seat":"`+id+`"}`).Err())
		require.NoError(t, rdb.SAdd(ctx, k.Available, id).Err())
	}
}

func TestReserveNReturnsUpToAvailable(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 1, "a", "b", "c")

	tickets, err := api.ReserveN(ctx, 1, 2, 30)
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	avail, err := api.AvailableCount(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), avail)

	k := NewClassKeys(1)
	reservedCard, err := rdb.SCard(ctx, k.Reserved).Result()
	require.NoError(t, err)
	require.Equal(t, int64(2), reservedCard)
}

func TestReserveNShortWhenAvailableIsShort(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 2, "x")

	tickets, err := api.ReserveN(ctx, 2, 5, 30)
	require.NoError(t, err)
	require.Len(t, tickets, 1, "reserveN must return fewer than n rather than error when available is short")
}

func TestReserveNRejectsInvalidArguments(t *testing.T) {
	api, _, _ := newTestAPI(t)
	ctx := context.Background()

	_, err := api.ReserveN(ctx, 3, 0, 30)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = api.ReserveN(ctx, 3, 1, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestConfirmMovesReservedToSold(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 3, "a", "b")

	tickets, err := api.ReserveN(ctx, 3, 2, 30)
	require.NoError(t, err)
	ids := idsOf(tickets)

	moved, err := api.Confirm(ctx, 3, ids)
	require.NoError(t, err)
	require.Equal(t, len(ids), moved)

	avail, reserved, sold, err := api.Counts(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int64(0), avail)
	require.Equal(t, int64(0), reserved)
	require.Equal(t, int64(2), sold)
}

func TestRollbackRestoresAvailable(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 4, "a", "b", "c")

	tickets, err := api.ReserveN(ctx, 4, 3, 30)
	require.NoError(t, err)
	ids := idsOf(tickets)

	moved, err := api.Rollback(ctx, 4, ids)
	require.NoError(t, err)
	require.Equal(t, 3, moved)

	avail, reserved, sold, err := api.Counts(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, int64(3), avail)
	require.Equal(t, int64(0), reserved)
	require.Equal(t, int64(0), sold)
}

func TestReclaimNoopWhenNothingExpired(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 5, "a")

	_, err := api.ReserveN(ctx, 5, 1, 300) // lease far in the future
	require.NoError(t, err)

	ids, err := api.Reclaim(ctx, 5, 100)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestReclaimMovesExpiredLeasesBack(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx := context.Background()
	seedPool(t, rdb, 6, "a", "b")

	_, err := api.ReserveN(ctx, 6, 2, 1) // expires in 1s
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	ids, err := api.Reclaim(ctx, 6, 100)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	avail, reserved, _, err := api.Counts(ctx, 6)
	require.NoError(t, err)
	require.Equal(t, int64(2), avail)
	require.Equal(t, int64(0), reserved)
}

func TestConfirmAndRollbackRejectEmptyIDs(t *testing.T) {
	api, _, _ := newTestAPI(t)
	ctx := context.Background()

	_, err := api.Confirm(ctx, 7, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = api.Rollback(ctx, 7, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
