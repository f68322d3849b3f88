package config

import (
	"strconv"
	"strings"
	"time"
)

// ReservationConfig holds the reservation-core tunables: default lease
// duration, sweeper interval, sweeper batch limit, and the list of classes
// to sweep. All have sane defaults so the service degrades gracefully when
// unset, the same envInt/envDur-with-defaults style as LoadRateLimitConfig.
type ReservationConfig struct {
	LeaseSeconds  int
	SweepInterval time.Duration
	SweepBatch    int
	SweepClassIDs []int
}

// LoadReservationConfig reads RESERVATION_* environment variables.
func LoadReservationConfig() ReservationConfig {
	cfg := ReservationConfig{
		LeaseSeconds:  envInt("RESERVATION_LEASE_SECONDS", 30),
		SweepInterval: envDur("RESERVATION_SWEEP_INTERVAL", time.Second),
		SweepBatch:    envInt("RESERVATION_SWEEP_BATCH", 500),
		SweepClassIDs: parseClassIDs(getenv("RESERVATION_SWEEP_CLASSES", "")),
	}
	if cfg.LeaseSeconds < 1 {
		cfg.LeaseSeconds = 30
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Second
	}
	if cfg.SweepBatch < 1 {
		cfg.SweepBatch = 500
	}
	return cfg
}

func parseClassIDs(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ids []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil {
			ids = append(ids, n)
		}
	}
	return ids
}
