// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bookit/experience-booking/internal/handler"
)

// RegisterRoutes registers routes that have no dependencies. Currently only
// the health check used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the booking and promo endpoints under /api/v1.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, l *handler.BookingLookupHandler, p *handler.PromoHandler) {
	g := e.Group("/api/v1")
	g.POST("/bookings", b.CreateBooking)
	g.GET("/bookings/:reference", l.GetByReference)
	g.POST("/promo/validate", p.ValidatePromo)
}

// RegisterCatalog registers the public read-only experience endpoints under
// /api/v1. The optional middleware (e.g. the Redis response cache) is applied
// to these GET routes only; booking writes are never cached.
func RegisterCatalog(e *echo.Echo, cat *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/v1", mw...)
	g.GET("/experiences", cat.ListExperiences)
	g.GET("/experiences/:id", cat.GetExperienceByID)
}
