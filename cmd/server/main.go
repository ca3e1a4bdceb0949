package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/karma-shop/backend/internal/application/cart"
	catalogapp "github.com/karma-shop/backend/internal/application/catalog"
	identityapp "github.com/karma-shop/backend/internal/application/identity"
	uploadapp "github.com/karma-shop/backend/internal/application/upload"
	"github.com/karma-shop/backend/internal/infrastructure/auth"
	"github.com/karma-shop/backend/internal/infrastructure/cache"
	"github.com/karma-shop/backend/internal/infrastructure/config"
	"github.com/karma-shop/backend/internal/infrastructure/logger"
	"github.com/karma-shop/backend/internal/infrastructure/persistence"
	"github.com/karma-shop/backend/internal/infrastructure/storage"
	"github.com/karma-shop/backend/internal/interfaces/http/handler"
	"github.com/karma-shop/backend/internal/interfaces/http/middleware"
	"github.com/karma-shop/backend/internal/interfaces/http/router"
)

//	@title			Karma Shop API
//	@version		1.0
//	@description	E-commerce backend: catalog, shopping cart, accounts and image uploads

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Karma Shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token blacklist: Redis when available, in-memory otherwise
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
			blacklist = auth.NewInMemoryTokenBlacklist()
		} else {
			blacklist = redisBlacklist
			log.Info("Redis token blacklist connected", zap.String("addr", cfg.Redis.Addr()))
		}
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Object storage for product images
	var objectStorage uploadapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage disabled, uploads are kept in memory only")
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)

	// Product lookups sit on the hot path of every cart mutation, so they
	// are served through a read-through cache
	var productCache cache.ProductCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisProductCache(
			cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB,
			cache.WithCacheLogger(log),
		)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory product cache", zap.Error(err))
			productCache = cache.NewInMemoryProductCache()
		} else {
			productCache = redisCache
			log.Info("Redis product cache connected", zap.String("addr", cfg.Redis.Addr()))
		}
	} else {
		productCache = cache.NewInMemoryProductCache()
	}
	defer func() {
		_ = productCache.Close()
	}()

	productRepo := cache.NewCachingProductRepository(
		persistence.NewGormProductRepository(db.DB),
		productCache,
		cache.WithRepositoryLogger(log),
	)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist)
	userService := identityapp.NewUserService(userRepo)
	productService := catalogapp.NewProductService(productRepo)
	cartService := cartapp.NewService(cartRepo, productRepo)
	uploadService := uploadapp.NewService(objectStorage, cfg.Storage.MaxUploadSize)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		MaxBytes: cfg.HTTP.MaxBodySize,
		PrefixOverrides: map[string]int64{
			// multipart framing adds overhead on top of the file itself
			"/api/v1/admin/upload": cfg.Storage.MaxUploadSize + 1<<20,
		},
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Require authentication everywhere except the storefront surface.
	// Cart routes are skipped here and run their own optional JWT layer
	// so a logged-in shopper's identity wins over a guest ID.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPathPrefixes: []string{
			"/api/v1/products",
			"/api/v1/cart",
			"/api/v1/system",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth routes (register/login/refresh public, logout/profile protected)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/profile", authHandler.Profile)

	// Storefront product routes (published products only)
	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)

	// Cart routes: anonymous guests and logged-in users share the surface
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.Use(middleware.OptionalJWTAuthMiddleware(jwtService, blacklist))
	cartRoutes.GET("", cartHandler.GetCart)
	cartRoutes.POST("", cartHandler.AddItem)
	cartRoutes.PUT("", cartHandler.SetItemQuantity)
	cartRoutes.DELETE("", cartHandler.RemoveItem)
	cartRoutes.POST("/merge", middleware.RequireAuth(), cartHandler.MergeCart)

	// Admin routes (catalog management, users, uploads)
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireAdminWithLogger(log))

	adminProducts := adminRoutes.Group("admin-products", "/products")
	adminProducts.GET("", productHandler.ListAll)
	adminProducts.POST("", productHandler.Create)
	adminProducts.PUT("/:id", productHandler.Update)
	adminProducts.DELETE("/:id", productHandler.Delete)

	adminUsers := adminRoutes.Group("admin-users", "/users")
	adminUsers.GET("", userHandler.List)
	adminUsers.POST("", userHandler.Create)
	adminUsers.GET("/:id", userHandler.Get)
	adminUsers.PUT("/:id", userHandler.Update)
	adminUsers.DELETE("/:id", userHandler.Delete)

	adminRoutes.POST("/upload", uploadHandler.UploadImage)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(authRoutes).
		Register(productRoutes).
		Register(cartRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness including database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
