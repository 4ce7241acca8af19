// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/handler"
	"github.com/avdonin/record-store/internal/middleware"
	"github.com/avdonin/record-store/internal/model"
)

// RegisterRoutes registers routes that need no authentication.
// Currently that is only the health check; everything else in the
// store, including catalog browsing, requires a session.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register,
// login, refresh and logout live under /v1/auth without middleware;
// /v1/me requires a valid token of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout needs no JWT middleware: a refresh token in the body is
	// enough to end a single session, a bearer ends all of them.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the read-only browse endpoints. Any
// authenticated role may read the catalog; responses are served
// through the cache middleware when one is supplied.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleBuyer, model.RoleSeller, model.RoleDirector),
	}
	if cache != nil {
		mws = append(mws, cache)
	}
	g := e.Group("/v1", mws...)

	g.GET("/catalog", h.GetCatalog)
	g.GET("/stats", h.GetStats)
	g.GET("/sales-leaders", h.GetSalesLeaders)
	g.GET("/ensembles/:id/compositions", h.GetEnsembleCompositions)
	g.GET("/ensembles/:id/records", h.GetEnsembleRecords)
}
