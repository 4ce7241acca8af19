package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/handler"
	"github.com/avdonin/record-store/internal/middleware"
	"github.com/avdonin/record-store/internal/model"
)

// RegisterManage registers the staff management endpoints. Roles do
// not nest, so the director is listed explicitly everywhere it is
// allowed: record management is open to sellers and the director,
// ensemble and user management to the director alone.
func RegisterManage(e *echo.Echo, rec *handler.RecordHandler, ens *handler.EnsembleHandler, users *handler.UserAdminHandler, jwtSecret string) {
	// ---- Records: sellers + director ----
	records := e.Group(
		"/v1/records",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleSeller, model.RoleDirector),
	)
	records.GET("", rec.ListRecords)
	records.POST("", rec.CreateRecord)
	records.GET("/:id", rec.GetRecord)
	records.PUT("/:id", rec.UpdateRecord)
	records.DELETE("/:id", rec.DeleteRecord)

	// ---- Ensembles: director only ----
	director := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleDirector),
	}
	ensembles := e.Group("/v1/ensembles", director...)
	ensembles.GET("", ens.ListEnsembles)
	ensembles.POST("", ens.CreateEnsemble)
	ensembles.GET("/:id", ens.GetEnsemble)
	ensembles.PUT("/:id", ens.UpdateEnsemble)
	ensembles.DELETE("/:id", ens.DeleteEnsemble)

	// ---- Users: director only, no hard delete ----
	admin := e.Group("/v1/users", director...)
	admin.GET("", users.ListUsers)
	admin.POST("", users.CreateUser)
	admin.PATCH("/:id/active", users.SetUserActive)
}
