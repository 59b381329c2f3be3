// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/config"
	"github.com/iliyamo/cinema-seat-booking/internal/handler"
	"github.com/iliyamo/cinema-seat-booking/internal/middleware"
	"github.com/iliyamo/cinema-seat-booking/internal/service"
)

// Deps are the shared dependencies of every route.
type Deps struct {
	Config config.Config
	Venues *service.Registry
	Redis  *redis.Client // optional
	Log    *zap.Logger
}

// New returns an Echo instance with the global middleware chain and all
// routes registered.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log))

	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes maps the health check, the token endpoint and the venue
// API.  Reads are public; anything that changes a venue needs a box-office
// token once a JWT secret is configured.
func RegisterRoutes(e *echo.Echo, d Deps) {
	cfg := d.Config
	limiter := middleware.NewTokenBucket(cfg.RateLimit, d.Redis, d.Log)

	health := &handler.HealthHandler{Venues: d.Venues, Redis: d.Redis}
	e.GET("/healthz", health.Health)

	auth := &handler.AuthHandler{
		PasscodeHash: cfg.BoxOfficeHash,
		Secret:       cfg.JWTSecret,
		TTL:          time.Duration(cfg.AccessTTLMin) * time.Minute,
		Role:         middleware.RoleBoxOffice,
		Log:          d.Log,
	}
	e.POST("/v1/auth/token", auth.IssueToken, limiter)

	vh := handler.NewVenueHandler(d.Venues)
	chartCache := middleware.NewRedisCache(cfg.Cache, d.Redis, vh.Revision, d.Log)

	// Route-level middleware rather than groups, so the public and
	// box-office routes can share the /v1/venues prefix.
	guarded := []echo.MiddlewareFunc{
		limiter,
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(cfg.AuthEnabled(), middleware.RoleBoxOffice),
	}

	e.GET("/v1/venues", vh.ListVenues, limiter)
	e.GET("/v1/venues/:id", vh.GetVenue, limiter)
	e.GET("/v1/venues/:id/chart", vh.Chart, limiter, chartCache)
	e.GET("/v1/venues/:id/preview", vh.Preview, limiter)
	e.GET("/v1/venues/:id/bookings", vh.ListBookings, limiter)
	e.GET("/v1/venues/:id/bookings/:bid", vh.GetBooking, limiter)

	e.POST("/v1/venues", vh.CreateVenue, guarded...)
	e.POST("/v1/venues/:id/bookings", vh.Book, guarded...)
	e.DELETE("/v1/venues/:id/bookings/:bid", vh.CancelBooking, guarded...)
}
