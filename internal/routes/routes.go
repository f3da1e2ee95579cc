package routes

import (
	"net/http"

	"bazaar_back_end/internal/handlers/admin"
	"bazaar_back_end/internal/handlers/payment"
	"bazaar_back_end/internal/handlers/product"
	"bazaar_back_end/internal/handlers/user"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// Dependencies collects what the HTTP layer needs. Limiter, Events and PDF may be nil.
type Dependencies struct {
	Auth    *services.AuthService
	Users   *services.UserService
	Catalog *services.CatalogService
	Cart    *services.CartService
	Orders  *services.OrderService
	Reviews *services.ReviewService
	Sales   *services.SalesService

	Limiter      *middleware.RateLimiter
	Events       user.OrderSubscriber
	PDF          payment.PDFRenderer
	OAuthEnabled bool
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {
	users := user.NewHandler(d.Auth, d.Users, d.Cart, d.Orders, d.Events)
	products := product.NewHandler(d.Catalog, d.Reviews)
	payments := payment.NewHandler(d.Orders, d.Users, d.PDF)
	admins := admin.NewHandler(d.Users, d.Sales)

	limit := func(pick func(*middleware.RateLimiter) gin.HandlerFunc) gin.HandlerFunc {
		if d.Limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return pick(d.Limiter)
	}

	authRequired := middleware.AuthRequired(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	customerOnly := middleware.RequireRoles(models.RoleCustomer)
	catalogEditors := middleware.RequireRoles(models.RoleAdmin, models.RoleVendor)

	r.Use(middleware.AuditTrail(), limit((*middleware.RateLimiter).APIRateLimit))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Bazaar API"})
	})

	// Auth
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", limit((*middleware.RateLimiter).RegisterRateLimit), users.Register)
		authGroup.POST("/login", limit((*middleware.RateLimiter).LoginRateLimit), users.Login)
		authGroup.POST("/logout", authRequired, users.Logout)
		if d.OAuthEnabled {
			authGroup.GET("/:provider", users.BeginAuth)
			authGroup.GET("/:provider/callback", users.CallbackAuth)
		}
	}

	// Users
	userGroup := r.Group("/user", authRequired)
	{
		userGroup.GET("/profile", users.GetProfile)
		userGroup.PUT("/profile", users.UpdateProfile)

		userGroup.GET("", adminOnly, admins.ListUsers)
		userGroup.GET("/:id", adminOnly, admins.GetUser)
		userGroup.PUT("/:id", adminOnly, admins.UpdateUser)
		userGroup.DELETE("/:id", adminOnly, admins.DeleteUser)
	}

	// Catalog
	productGroup := r.Group("/product")
	{
		productGroup.GET("/products", optionalAuth, products.ListProducts)
		productGroup.GET("/products/search", limit((*middleware.RateLimiter).SearchRateLimit), optionalAuth, products.SearchProducts)
		productGroup.GET("/products/category", optionalAuth, products.ProductsByCategory)
		productGroup.GET("/products/rating", optionalAuth, products.ProductsByRating)
		productGroup.GET("/products/:id", optionalAuth, products.GetProduct)

		productGroup.POST("/products", authRequired, catalogEditors, products.CreateProduct)
		productGroup.PUT("/products/:id", authRequired, catalogEditors, middleware.AuditPriceChanges(), products.UpdateProduct)
		productGroup.DELETE("/products/:id/delete", authRequired, catalogEditors, products.DeleteProduct)
		productGroup.POST("/products/:id/image", authRequired, catalogEditors, products.UploadImage)
		productGroup.POST("/products/import", authRequired, adminOnly, products.ImportProducts)
		productGroup.GET("/admin-product-analysis", authRequired, adminOnly, products.ProductAnalysis)
	}

	// Reviews
	r.POST("/reviews/reviews", authRequired, customerOnly, products.CreateReview)
	r.GET("/reviews/products/:id/reviews", optionalAuth, products.ProductReviews)

	// Cart and wishlist
	cartGroup := r.Group("/cart", authRequired, customerOnly)
	{
		cartGroup.POST("/cart", limit((*middleware.RateLimiter).CartRateLimit), users.AddToCart)
		cartGroup.GET("/cart", users.GetCart)
		cartGroup.DELETE("/cart/:product_id", users.RemoveFromCart)

		cartGroup.POST("/wishlist", users.AddToWishlist)
		cartGroup.GET("/wishlist", users.GetWishlist)
		cartGroup.DELETE("/wishlist/:product_id", users.RemoveFromWishlist)
	}

	// Orders
	orderGroup := r.Group("/orders", authRequired)
	{
		orderGroup.POST("/place", customerOnly, users.PlaceOrder)
		orderGroup.GET("", users.ListOrders)
		orderGroup.GET("/all", adminOnly, users.ListPaidOrders)
		orderGroup.GET("/:id", users.GetOrder)
		orderGroup.DELETE("/:id", users.CancelOrder)
		orderGroup.GET("/:id/timeline", users.OrderTimeline)
		orderGroup.GET("/:id/invoice", payments.Invoice)
	}

	// Payment and shipment
	r.POST("/payment/orders/:id/pay", authRequired, payments.PayOrder)
	shipmentGroup := r.Group("/shipment/orders", authRequired, adminOnly)
	{
		shipmentGroup.PUT("/:id/shipment", payments.ShipOrder)
		shipmentGroup.PUT("/:id/deliver", payments.DeliverOrder)
		shipmentGroup.GET("/:id/label.png", payments.ShippingLabel)
	}

	// Sales analytics
	salesGroup := r.Group("/sales", authRequired, adminOnly)
	{
		salesGroup.GET("/total-revenue", admins.TotalRevenue)
		salesGroup.GET("/monthly-revenue", admins.MonthlyRevenue)
		salesGroup.GET("/daily-sales-trend", admins.DailySalesTrend)
		salesGroup.GET("/best-products", admins.BestProducts)
		salesGroup.GET("/popular-products", admins.PopularProducts)
	}

	// Realtime
	r.GET("/ws/orders", authRequired, users.OrderWebSocket)
}
