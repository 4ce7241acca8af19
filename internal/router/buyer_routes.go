package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/handler"
	"github.com/avdonin/record-store/internal/middleware"
	"github.com/avdonin/record-store/internal/model"
)

// RegisterBuyer registers the buyer-scoped endpoints: cart
// management, purchases and the personal cabinet. All routes require
// a valid JWT with the buyer role; staff roles are deliberately shut
// out so test purchases by sellers never pollute sales statistics.
func RegisterBuyer(e *echo.Echo, cart *handler.CartHandler, purchases *handler.PurchaseHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleBuyer),
	)

	g.GET("/cart", cart.GetCart)
	g.POST("/cart/:record_id", cart.AddToCart)
	g.DELETE("/cart/:record_id", cart.RemoveFromCart)
	g.POST("/cart/checkout", purchases.Checkout)

	g.POST("/purchases", purchases.Purchase)
	g.GET("/my-purchases", purchases.MyPurchases)
}
