package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness of the store the reservation core depends
// on. A degraded Redis connection is the one failure mode that matters here:
// without it no container operation (reserve, confirm, rollback, reclaim)
// can run.
type HealthHandler struct {
	Rdb *redis.Client
}

func NewHealthHandler(rdb *redis.Client) *HealthHandler {
	return &HealthHandler{Rdb: rdb}
}

// Health handles GET /health. It pings Redis with a short timeout and
// reports 503 if the store is unreachable.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if h.Rdb == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"redis": "unconfigured"})
	}
	if err := h.Rdb.Ping(ctx).Err(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"redis": "unreachable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"redis": "PONG"})
}
