// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-api/internal/auth"
	"github.com/iliyamo/todo-api/internal/handler"
	"github.com/iliyamo/todo-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check,
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers signup/login under /v1/auth and the protected
// profile endpoint under /v1. The optional limiter middleware (rate
// limiting for the unauthenticated endpoints) is applied to the
// /v1/auth group when non-nil.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *auth.TokenService, users middleware.UserLookup, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)

	protected := e.Group("/v1")
	protected.Use(middleware.JWTAuth(tokens, users))
	protected.GET("/me", a.Me)
}

// RegisterTodos registers the todo CRUD endpoints under /v1/todos. Every
// route requires a valid access token; ownership of individual records
// is enforced inside the handlers.
func RegisterTodos(e *echo.Echo, h *handler.TodoHandler, tokens *auth.TokenService, users middleware.UserLookup) {
	g := e.Group("/v1/todos", middleware.JWTAuth(tokens, users))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.PUT("/:id/status", h.SetStatus)
	g.DELETE("/:id", h.Delete)
}
