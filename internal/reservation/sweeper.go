package reservation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSweepInterval and DefaultBatchLimit are the sweeper's configured
// defaults (sweeper interval 1s, batch limit 500).
const (
	DefaultSweepInterval = time.Second
	DefaultBatchLimit    = 500
)

// reclaimedChannel is the Pub/Sub channel a sweeper publishes to after any
// non-empty sweep of a class, so operators can watch reclaim throughput
// without polling GET /counts.
func reclaimedChannel(classID int) string {
	return fmt.Sprintf("reservation:reclaimed:%d", classID)
}

// Sweeper runs one background reclaim loop per configured class. Classes
// not covered remain correct but abandoned leases persist until a manual
// Reclaim call is issued.
type Sweeper struct {
	API      *API
	Rdb      *redis.Client
	Classes  []int
	Interval time.Duration
	Batch    int
}

// NewSweeper builds a Sweeper with the package defaults; callers may
// override Interval/Batch before calling Start.
func NewSweeper(api *API, rdb *redis.Client, classes []int) *Sweeper {
	return &Sweeper{
		API:      api,
		Rdb:      rdb,
		Classes:  classes,
		Interval: DefaultSweepInterval,
		Batch:    DefaultBatchLimit,
	}
}

// Start spawns one goroutine per configured class. Each goroutine exits
// within one interval of ctx being cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	batch := s.Batch
	if batch <= 0 {
		batch = DefaultBatchLimit
	}
	for _, classID := range s.Classes {
		go s.loop(ctx, classID, interval, batch)
	}
}

func (s *Sweeper) loop(ctx context.Context, classID int, interval time.Duration, batch int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reclaimed, err := s.API.Reclaim(ctx, classID, batch)
			if err != nil {
				log.Printf("sweeper: class=%d reclaim failed: %v", classID, err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}
			if len(reclaimed) == 0 {
				continue
			}
			if s.Rdb != nil {
				if err := s.Rdb.Publish(ctx, reclaimedChannel(classID), len(reclaimed)).Err(); err != nil {
					log.Printf("sweeper: class=%d publish notification failed: %v", classID, err)
				}
			}
		}
	}
}
