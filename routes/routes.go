package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zavattaro/modinha-boutique-app/configs"
	"github.com/zavattaro/modinha-boutique-app/controllers"
	"github.com/zavattaro/modinha-boutique-app/middlewares"
	"github.com/zavattaro/modinha-boutique-app/repository"
	"github.com/zavattaro/modinha-boutique-app/services"
)

func RegisterRoutes(r *gin.Engine, cfg *configs.Config) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	db := configs.DB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	couponSvc := services.NewCouponService(couponRepo, cfg.StorageTimeout)
	settlementSvc := services.NewSettlementService(db, couponRepo, affiliateRepo, cfg.StorageTimeout)
	affiliateSvc := services.NewAffiliateService(db, affiliateRepo, couponRepo, cfg.StorageTimeout)
	mpSvc := services.NewMercadoPagoService(cfg.MercadoPagoBaseURL, cfg.MercadoPagoToken, cfg.WebhookBaseURL)
	orderSvc := services.NewOrderService(db, orderRepo, productRepo, couponSvc, settlementSvc, mpSvc, cfg.WhatsAppNumber)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	productCtrl := controllers.NewProductController(productRepo)
	couponCtrl := controllers.NewCouponController(couponSvc)
	checkoutCtrl := controllers.NewCheckoutController(orderSvc)
	paymentCtrl := controllers.NewPaymentController(db, orderRepo, mpSvc)
	affiliateCtrl := controllers.NewAdminAffiliateController(affiliateSvc)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	a.GET("/me", middlewares.AuthMiddleware(cfg.JWTSecret), authCtrl.Me)

	// Catalog (public)
	r.GET("/products", productCtrl.List)
	r.GET("/products/:id", productCtrl.Detail)

	// Coupon validation is public: the cart asks before the customer
	// commits, and it never mutates anything.
	r.POST("/coupons/validate", couponCtrl.Validate)

	// Checkout works for guests too; the middleware only attaches the
	// user when a token is present.
	r.POST("/checkout", middlewares.OptionalAuth(cfg.JWTSecret), checkoutCtrl.Checkout)

	// Orders (user)
	u := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		u.GET("/orders/:id", checkoutCtrl.Detail)
		u.GET("/profile/orders", checkoutCtrl.ListForMe)
	}

	// Payment processor callbacks
	r.POST("/webhooks/mercadopago", paymentCtrl.Webhook)

	// Admin (admin only)
	admin := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, "admin"))
	{
		admin.GET("/affiliates", affiliateCtrl.List)
		admin.POST("/affiliates", affiliateCtrl.Create)
		admin.GET("/affiliates/:id/transactions", affiliateCtrl.Transactions)
		admin.PATCH("/affiliates/:id/status", affiliateCtrl.SetStatus)
		admin.POST("/products", productCtrl.Create)
	}
}
