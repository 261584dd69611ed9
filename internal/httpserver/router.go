package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cartsvc "storefront-purchase/internal/service/cart"
)

// Deps bundles the services the routes are built on.
type Deps struct {
	Carts *cartsvc.Repository
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &cartHandlers{carts: deps.Carts, logger: logger}

	api := router.Group("/api")
	carts := api.Group("/carts")
	carts.GET("/search", h.search)
	carts.GET("/current", h.getOrCreate)
	carts.POST("/current", h.getOrCreate)
	carts.GET("/:id", h.getByID)
	carts.DELETE("/:id", h.remove)
	carts.PUT("/:id/comment", h.updateComment)
	carts.POST("/:id/items", h.addItem)
	carts.DELETE("/:id/items", h.clearItems)
	carts.PATCH("/:id/items/:itemId", h.updateItem)
	carts.DELETE("/:id/items/:itemId", h.removeItem)
	carts.POST("/:id/coupons", h.addCoupon)
	carts.DELETE("/:id/coupons", h.removeCoupon)
	carts.POST("/:id/shipments", h.addOrUpdateShipment)
	carts.DELETE("/:id/shipments/:shipmentId", h.removeShipment)
	carts.POST("/:id/payments", h.addOrUpdatePayment)
	carts.DELETE("/:id/payments/:paymentId", h.removePayment)
	carts.POST("/:id/merge", h.merge)
	carts.GET("/:id/shipping-rates", h.availableShippingRates)
	carts.GET("/:id/payment-methods", h.availablePaymentMethods)

	return router
}
