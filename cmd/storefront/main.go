package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/furniro/storefront/internal/api/handlers"
	"github.com/furniro/storefront/internal/api/middleware"
	"github.com/furniro/storefront/internal/cache"
	"github.com/furniro/storefront/internal/config"
	"github.com/furniro/storefront/internal/health"
	"github.com/furniro/storefront/internal/metrics"
	repository "github.com/furniro/storefront/internal/repositories"
	service "github.com/furniro/storefront/internal/services"
	"github.com/furniro/storefront/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), &cfg.Telemetry)
	if err != nil {
		slog.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	redisRepo := repository.NewRedisRepo(redisClient, cfg)
	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	// Services and handlers
	userService := service.NewUserService(repos.User, redisRepo, &cfg.Security)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product, productCache, &cfg.Cache)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	wishlistService := service.NewWishlistService(repos.Wishlist, repos.Product)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)

	authenticate := middleware.Authenticate(&cfg.Security)
	admin := func(h http.Handler) http.Handler { return authenticate(middleware.RequireAdmin(h)) }

	healthHandler, err := health.NewHealthHandler(&health.Endpoints{
		DB:          repos.DB,
		RedisClient: redisClient,
	})
	if err != nil {
		slog.Error("failed to initialize health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.Handle("GET /api/v1/users/profile", authenticate(userHandler.Profile()))
	routerMux.Handle("PUT /api/v1/users/profile", authenticate(userHandler.UpdateProfile()))
	routerMux.Handle("PUT /api/v1/users/password", authenticate(userHandler.ChangePassword()))

	routerMux.HandleFunc("GET /api/v1/products", productHandler.List())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetByID())
	routerMux.Handle("POST /api/v1/products", admin(productHandler.Create()))
	routerMux.Handle("PUT /api/v1/products/{id}", admin(productHandler.Update()))
	routerMux.Handle("DELETE /api/v1/products/{id}", admin(productHandler.Delete()))

	routerMux.Handle("GET /api/v1/cart/{userId}", authenticate(cartHandler.GetCart()))
	routerMux.Handle("GET /api/v1/cart/{userId}/count", authenticate(cartHandler.Count()))
	routerMux.Handle("POST /api/v1/cart", authenticate(cartHandler.AddItem()))
	routerMux.Handle("PUT /api/v1/cart/items/{itemId}", authenticate(cartHandler.UpdateQuantity()))
	routerMux.Handle("DELETE /api/v1/cart/items/{itemId}", authenticate(cartHandler.RemoveItem()))
	routerMux.Handle("DELETE /api/v1/cart/{userId}", authenticate(cartHandler.ClearCart()))

	routerMux.Handle("GET /api/v1/wishlist/{userId}", authenticate(wishlistHandler.GetWishlist()))
	routerMux.Handle("GET /api/v1/wishlist/{userId}/count", authenticate(wishlistHandler.Count()))
	routerMux.Handle("POST /api/v1/wishlist", authenticate(wishlistHandler.Add()))
	routerMux.Handle("POST /api/v1/wishlist/toggle", authenticate(wishlistHandler.Toggle()))
	routerMux.Handle("POST /api/v1/wishlist/{userId}/check", authenticate(wishlistHandler.CheckStatus()))
	routerMux.Handle("DELETE /api/v1/wishlist/{userId}/{productId}", authenticate(wishlistHandler.Remove()))
	routerMux.Handle("DELETE /api/v1/wishlist/{userId}", authenticate(wishlistHandler.Clear()))

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.RequestLogger(handler)

	if cfg.Telemetry.Enabled {
		handler = otelhttp.NewHandler(handler, "storefront")
	}

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("server is starting", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("shutdown signal received, stopping the server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}

	slog.Info("server shut down gracefully")
}
