// Package router wires the HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Jay210305/Fulbo-sub001/internal/handler"
	"github.com/Jay210305/Fulbo-sub001/internal/middleware"
)

// RegisterRoutes registers the unauthenticated routes. Only the health
// check lives here; everything else requires a token.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterScheduleBlocks mounts the manager console's block endpoints.
// Paths match the surrounding marketplace app. All routes require a
// MANAGER token; rate limiting applies when configured.
func RegisterScheduleBlocks(e *echo.Echo, h *handler.BlockHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/schedule-blocks")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(middleware.RoleManager))
	if limiter != nil {
		g.Use(limiter)
	}
	g.GET("", h.List)
	g.GET("/dates", h.Dates)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
}

// RegisterReservationHolds mounts the shopper checkout's hold endpoints,
// gated to CUSTOMER tokens.
func RegisterReservationHolds(e *echo.Echo, h *handler.HoldHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/reservation-holds")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(middleware.RoleCustomer))
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("", h.Request)
	g.GET("/:id", h.Get)
	g.POST("/:id/confirm", h.Confirm)
	g.DELETE("/:id", h.Cancel)
}
