package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-seat-booking/internal/service"
)

// HealthHandler reports liveness for load balancers and monitoring.
type HealthHandler struct {
	Venues *service.Registry
	Redis  *redis.Client // nil when caching and rate limiting are off
}

// Health always answers 200; a Redis outage only degrades the limiter and
// cache, so it is reported but not fatal.
func (h *HealthHandler) Health(c echo.Context) error {
	redisState := "disabled"
	if h.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
		defer cancel()
		redisState = "up"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			redisState = "down"
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"venues": len(h.Venues.List()),
		"redis":  redisState,
	})
}
