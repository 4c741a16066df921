package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for database health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger is the subset of *redis.Client used for health checks.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool  Pinger
	cache RedisPinger
}

// NewHealthHandler creates a new HealthHandler with the given database pool
// and cache client.
func NewHealthHandler(pool Pinger, cache RedisPinger) *HealthHandler {
	return &HealthHandler{pool: pool, cache: cache}
}

// Check pings the database and the cache store.
// Returns 200 OK with {"status": "healthy"} when both are reachable.
// Returns 503 Service Unavailable naming the failing dependency otherwise.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.pool.Ping(c.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}
	if err := h.cache.Ping(c.Context()).Err(); err != nil {
		log.Error().Err(err).Msg("health check failed: cache unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "cache connection failed",
		})
	}
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}
