package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopcart/internal/domain"
	"shopcart/internal/service/catalog"
	"shopcart/internal/service/order"
	"shopcart/internal/service/shop"
)

// ShopService is the subset of *shop.Service the handlers call.
type ShopService interface {
	Ping(ctx context.Context) error
	Limits() catalog.Limits
	Snapshot(ctx context.Context, shopKey string) (shop.Snapshot, error)

	Products(ctx context.Context, shopKey, term string) ([]domain.Product, error)
	Product(ctx context.Context, shopKey, productID string) (domain.Product, error)
	AddProduct(ctx context.Context, shopKey string, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, shopKey, productID string, updates domain.ProductUpdate) (domain.Product, error)
	DeleteProduct(ctx context.Context, shopKey, productID string) error
	StockStatus(ctx context.Context, shopKey, productID string) (domain.StockStatus, error)
	ImportProducts(ctx context.Context, shopKey string, products []domain.Product) (shop.ImportReport, error)

	Cart(ctx context.Context, shopKey string) (shop.CartView, error)
	AddToCart(ctx context.Context, shopKey, productID string) (shop.CartView, error)
	RemoveFromCart(ctx context.Context, shopKey, productID string) (shop.CartView, error)
	UpdateQuantity(ctx context.Context, shopKey, productID string, quantity int) (shop.CartView, error)
	UpdateCart(ctx context.Context, shopKey string, in shop.UpdateInput) (shop.CartView, error)

	Coupons(ctx context.Context, shopKey string) ([]domain.Coupon, error)
	AddCoupon(ctx context.Context, shopKey string, c domain.Coupon) (domain.Coupon, error)
	UpdateCoupon(ctx context.Context, shopKey, code string, updates domain.CouponUpdate) (domain.Coupon, error)
	DeleteCoupon(ctx context.Context, shopKey, code string) error
	ApplyCoupon(ctx context.Context, shopKey, code string) (shop.CartView, error)
	ClearCoupon(ctx context.Context, shopKey string) (shop.CartView, error)

	CompleteOrder(ctx context.Context, shopKey string) (order.Confirmation, error)

	Preferences(ctx context.Context, shopKey string) (domain.Preferences, error)
	SetPreferences(ctx context.Context, shopKey string, p domain.Preferences) error
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(zap.NewStdLog(logger).Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Shop))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	h := &handlers{svc: deps.Shop, logger: logger}
	shops := router.Group("/shops/:shopKey", shopMiddleware(logger))
	{
		shops.GET("", h.snapshot)

		shops.GET("/products", h.listProducts)
		shops.POST("/products", h.createProduct)
		shops.POST("/products/import", h.importProducts)
		shops.GET("/products/:productID", h.getProduct)
		shops.PATCH("/products/:productID", h.updateProduct)
		shops.DELETE("/products/:productID", h.deleteProduct)
		shops.GET("/products/:productID/stock", h.stockStatus)

		shops.GET("/cart", h.getCart)
		shops.POST("/cart", h.updateCart)
		shops.POST("/cart/items", h.addCartItem)
		shops.PATCH("/cart/items/:productID", h.updateCartItem)
		shops.DELETE("/cart/items/:productID", h.removeCartItem)
		shops.POST("/cart/coupon", h.applyCoupon)
		shops.DELETE("/cart/coupon", h.clearCoupon)

		shops.GET("/coupons", h.listCoupons)
		shops.POST("/coupons", h.createCoupon)
		shops.PATCH("/coupons/:code", h.updateCoupon)
		shops.DELETE("/coupons/:code", h.deleteCoupon)

		shops.POST("/orders", h.completeOrder)

		shops.GET("/preferences", h.getPreferences)
		shops.PUT("/preferences", h.setPreferences)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
