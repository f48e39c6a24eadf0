package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hanastore/checkout-api/internal/config"
	"github.com/hanastore/checkout-api/internal/event"
	"github.com/hanastore/checkout-api/internal/handlers"
	"github.com/hanastore/checkout-api/internal/middleware"
	"github.com/hanastore/checkout-api/internal/notify"
	"github.com/hanastore/checkout-api/internal/ordernum"
	"github.com/hanastore/checkout-api/internal/repository"
	"github.com/hanastore/checkout-api/internal/service"
	"github.com/hanastore/checkout-api/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting checkout api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"order_prefix", cfg.Store.OrderPrefix,
	)

	// Initialize repositories. With a DSN configured the service runs against
	// MySQL; without one it runs fully in memory.
	var (
		catalogRepo repository.CatalogRepository
		orderRepo   repository.OrderRepository
		couponRepo  repository.CouponRepository
	)
	if cfg.Database.DSN != "" {
		db, err := repository.Connect(cfg.Database.DSN)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := repository.Migrate(db); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		log.Info("database ready")

		catalogRepo = repository.NewMySQLCatalogRepository(db)
		orderRepo = repository.NewMySQLOrderRepository(db)
		couponRepo = repository.NewMySQLCouponRepository(db)
	} else {
		log.Warn("no DATABASE_DSN configured, using in-memory repositories")
		catalogRepo = repository.NewInMemoryCatalogRepository()
		orderRepo = repository.NewInMemoryOrderRepository()
		couponRepo = repository.NewInMemoryCouponRepository()
	}

	// Post-checkout notifications: fire-and-forget, never part of the
	// order's success or failure.
	dispatcher := event.NewAsyncDispatcher(log, notify.NewEmailNotifier(log))
	defer dispatcher.Close()

	// Initialize services
	numberGen := ordernum.NewRandomSuffixGenerator(cfg.Store.OrderPrefix)
	orderService := service.NewOrderService(catalogRepo, orderRepo, couponRepo, numberGen, dispatcher, log)
	couponService := service.NewCouponService(couponRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	couponHandler := handlers.NewCouponHandler(couponService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration. Preflight OPTIONS requests are answered on every
	// route with permissive headers, matching the rest of the storefront.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", orderHandler.CreateOrder)
		r.Get("/orders/track", orderHandler.TrackOrder)
		r.Post("/coupons/validate", couponHandler.ValidateCoupon)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
