// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackmarket/sm-backend/internal/cache"
	"github.com/stackmarket/sm-backend/internal/config"
	"github.com/stackmarket/sm-backend/internal/handlers"
	"github.com/stackmarket/sm-backend/internal/middleware"
	"github.com/stackmarket/sm-backend/internal/scoring"
	"github.com/stackmarket/sm-backend/internal/services"
	"github.com/stackmarket/sm-backend/internal/store"
	"github.com/stackmarket/sm-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Shared infrastructure
	hotCache := cache.New(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CleanupIntervalSeconds)*time.Second,
	)
	gormStore := store.NewGormStore(db)
	engine := scoring.NewEngine(scoring.Config{
		PrimaryEcosystemCategory:   cfg.Scoring.PrimaryEcosystemCategory,
		SecondaryEcosystemCategory: cfg.Scoring.SecondaryEcosystemCategory,
	})

	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	paymentService := services.NewPaymentService(cfg)

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	productService := services.NewProductService(db, hotCache)
	scoreService := services.NewScoreService(gormStore, engine)
	featureService := services.NewFeatureService(db, scoreService)
	reviewService := services.NewReviewService(db, scoreService)
	competitorService := services.NewCompetitorService(gormStore)
	quoteService := services.NewQuoteService(gormStore)
	bundleService := services.NewBundleService(db)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db, paymentService)
	analyticsService := services.NewAnalyticsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService, featureService, reviewService, storageService)
	analysisHandler := handlers.NewAnalysisHandler(scoreService, competitorService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	bundleHandler := handlers.NewBundleHandler(bundleService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Stripe webhook lives outside /v1; the signature check is its auth.
	r.POST("/webhooks/stripe", orderHandler.StripeWebhook)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/verify-email", authHandler.VerifyEmail)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id", userHandler.GetPublicProfile)

			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.PUT("/interests", middleware.BuyerRequired(), userHandler.UpdateInterests)
				protected.DELETE("/account", userHandler.DeleteAccount)
			}
		}

		// Product catalog routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/featured", productHandler.GetFeaturedProducts)
			products.GET("/new", productHandler.GetNewProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
			products.GET("/:id/features", productHandler.GetFeatures)
			products.GET("/:id/reviews", productHandler.GetReviews)

			// Score and analysis reads are rate limited separately; the
			// computations behind them are expensive.
			scored := products.Group("")
			scored.Use(middleware.ScoringRateLimit())
			{
				scored.GET("/:id/scores", middleware.OptionalAuth(), analysisHandler.GetScores)
				scored.GET("/:id/analysis", analysisHandler.GetCompetitorAnalysis)
			}

			// Seller-managed catalog mutations
			managed := products.Group("")
			managed.Use(middleware.AuthRequired(), middleware.SellerRequired())
			{
				managed.POST("", productHandler.CreateProduct)
				managed.PUT("/:id", productHandler.UpdateProduct)
				managed.DELETE("/:id", productHandler.ArchiveProduct)
				managed.POST("/:id/features", productHandler.AddFeatures)
				managed.POST("/upload-assets", middleware.UploadRateLimit(), productHandler.UploadProductAssets)
				managed.POST("/:id/scores/recalculate", middleware.ScoringRateLimit(), analysisHandler.RecalculateScores)
				managed.POST("/:id/competitors/identify", middleware.ScoringRateLimit(), analysisHandler.IdentifyCompetitors)
			}

			// Buyer actions on the catalog
			buyer := products.Group("")
			buyer.Use(middleware.AuthRequired(), middleware.BuyerRequired())
			{
				buyer.POST("/:id/reviews", productHandler.CreateReview)
				buyer.GET("/:id/download", productHandler.GetDownloadURL)
			}
		}

		// Feature routes addressed by feature ID
		features := v1.Group("/features")
		features.Use(middleware.AuthRequired(), middleware.SellerRequired())
		{
			features.PUT("/:id", productHandler.UpdateFeature)
			features.DELETE("/:id", productHandler.DeleteFeature)
		}

		// Review routes addressed by review ID
		reviews := v1.Group("/reviews")
		reviews.Use(middleware.AuthRequired(), middleware.BuyerRequired())
		{
			reviews.DELETE("/:id", productHandler.DeleteReview)
		}

		// Category routes
		v1.GET("/categories", productHandler.GetCategories)

		// Quote routes
		quotes := v1.Group("/quotes")
		quotes.Use(middleware.AuthRequired())
		{
			quotes.POST("", middleware.BuyerRequired(), quoteHandler.GenerateQuote)
			quotes.GET("/:id", quoteHandler.GetQuote)
			quotes.POST("/:id/send", middleware.SellerRequired(), quoteHandler.SendQuote)
			quotes.POST("/:id/accept", middleware.BuyerRequired(), quoteHandler.AcceptQuote)
			quotes.POST("/:id/reject", middleware.BuyerRequired(), quoteHandler.RejectQuote)
			quotes.POST("/:id/extend", middleware.SellerRequired(), quoteHandler.ExtendValidity)
		}

		// Bundle routes
		bundles := v1.Group("/bundles")
		{
			bundles.GET("/:id", bundleHandler.GetBundle)
			bundles.POST("/price", bundleHandler.CalculatePrice)
			bundles.POST("", middleware.AuthRequired(), middleware.SellerRequired(), bundleHandler.CreateBundle)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired(), middleware.BuyerRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItemQuantity)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired(), middleware.BuyerRequired())
		{
			orders.POST("/checkout", orderHandler.Checkout)
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Seller dashboard routes
		seller := v1.Group("/seller")
		seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
		{
			seller.GET("/products", productHandler.GetSellerProducts)
			seller.GET("/bundles", bundleHandler.GetSellerBundles)
			seller.GET("/dashboard", analyticsHandler.GetSellerDashboard)
			seller.GET("/products/performance", analyticsHandler.GetProductPerformance)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/stats", analyticsHandler.GetPlatformStats)
			admin.POST("/orders/:id/refund", orderHandler.RefundOrder)
			admin.POST("/scores/recalculate-all", analysisHandler.RecalculateAllScores)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
