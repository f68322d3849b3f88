package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSweeperReclaimsExpiredLeases(t *testing.T) {
	api, _, rdb := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedPool(t, rdb, 20, "a", "b")
	_, err := api.ReserveN(ctx, 20, 2, 1)
	require.NoError(t, err)

	sweeper := NewSweeper(api, rdb, []int{20})
	sweeper.Interval = 50 * time.Millisecond
	sweeper.Batch = 10
	sweeper.Start(ctx)

	require.Eventually(t, func() bool {
		avail, err := api.AvailableCount(ctx, 20)
		return err == nil && avail == 2
	}, 3*time.Second, 50*time.Millisecond, "sweeper should reclaim expired leases back to available")
}
