package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/ankitaduttagupta/ticketing-service/internal/config"
	"github.com/ankitaduttagupta/ticketing-service/internal/handler"
	"github.com/ankitaduttagupta/ticketing-service/internal/middleware"
)

// Deps bundles every handler and config value the route table needs.
type Deps struct {
	JWTSecret   string
	Auth        *handler.AuthHandler
	Health      *handler.HealthHandler
	Reservation *handler.ReservationHandler
	Rdb         *redis.Client
	RateLimit   config.RateLimitConfig
	Cache       config.CacheConfig
}

// RegisterRoutes wires the health, auth, and reservation surfaces onto e,
// each with the middleware chain appropriate to its route group (rate
// limit -> auth -> role -> cache where relevant).
func RegisterRoutes(e *echo.Echo, d Deps) {
	limiter := middleware.NewTokenBucket(d.RateLimit, d.Rdb)
	e.Use(limiter)

	e.GET("/health", d.Health.Health)

	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.GET("/me", d.Auth.Me, middleware.JWTAuth(d.JWTSecret))

	cache := middleware.NewRedisCache(d.Cache, d.Rdb)
	e.GET("/counts/:class", d.Reservation.Counts, cache)

	e.POST("/preload/:class", d.Reservation.Preload,
		middleware.JWTAuth(d.JWTSecret), middleware.RequireRole("owner"))
	e.POST("/reclaim/:class", d.Reservation.Reclaim,
		middleware.JWTAuth(d.JWTSecret), middleware.RequireRole("owner"))
	e.POST("/purchase/:class", d.Reservation.Purchase,
		middleware.JWTAuth(d.JWTSecret), middleware.RequireRole("customer"))
}
