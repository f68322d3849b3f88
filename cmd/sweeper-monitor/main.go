// Command sweeper-monitor subscribes to the per-class reclaim Pub/Sub
// channels the server's background Sweeper publishes to and logs reclaim
// activity. It runs independently of the API server so operators can watch
// expiry-reclaim throughput without instrumenting the request path.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ankitaduttagupta/ticketing-service/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("info: .env not found; using defaults/env")
	}

	resCfg := config.LoadReservationConfig()
	if len(resCfg.SweepClassIDs) == 0 {
		log.Fatal("sweeper-monitor: RESERVATION_SWEEP_CLASSES is empty, nothing to watch")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("sweeper-monitor: redis connect failed")
	}
	defer rdb.Close()

	channels := make([]string, len(resCfg.SweepClassIDs))
	for i, id := range resCfg.SweepClassIDs {
		channels[i] = "reservation:reclaimed:" + strconv.Itoa(id)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := rdb.Subscribe(ctx, channels...)
	defer sub.Close()

	log.Printf("sweeper-monitor: watching %s", strings.Join(channels, ", "))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	msgs := sub.Channel()
	for {
		select {
		case <-stop:
			log.Println("sweeper-monitor: shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			log.Printf("reclaimed: channel=%s count=%s", msg.Channel, msg.Payload)
		}
	}
}
