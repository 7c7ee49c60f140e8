package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storefront-bff/config"
	"storefront-bff/internal/catalog"
	"storefront-bff/internal/delivery/http/middleware"
	v1 "storefront-bff/internal/delivery/http/v1"
	"storefront-bff/internal/domain"
	"storefront-bff/internal/infrastructure/cache"
	"storefront-bff/internal/repository/postgres"
	"storefront-bff/internal/usecase"
	"storefront-bff/pkg/logger"
	"storefront-bff/pkg/storage"
	"storefront-bff/pkg/utils"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.LoadConfig()

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	utils.SetSecret(cfg.SessionSecret)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Persisted cart and favorites snapshots
	stateStore, closeStore, err := newStateStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("Failed to initialize state storage")
	}
	defer closeStore()
	log.Info().Str("backend", cfg.StorageBackend).Msg("State storage ready")

	// Commerce backend
	backend := catalog.NewClient(cfg.BackendURL, cfg.BackendTimeout)

	// In-memory caches: catalog pages, product snapshots, live sessions
	pageCache := cache.NewMemoryCache(cfg.CatalogCacheTTL, 2*cfg.CatalogCacheTTL)
	productCache := cache.NewMemoryCache(cfg.CatalogCacheTTL, 2*cfg.CatalogCacheTTL)
	sessionCache := cache.NewMemoryCache(time.Hour, 10*time.Minute)

	pager := catalog.NewPager(backend, pageCache, cfg.CatalogCacheTTL, cfg.CatalogPageSize)

	// --- Modules Initialization ---
	sessionUC := usecase.NewSessionUsecase(stateStore, pager, sessionCache, usecase.SessionOptions{
		TTL:          time.Hour,
		FilterWindow: cfg.FilterDebounce,
	})
	productUC := usecase.NewProductUsecase(backend, productCache, cfg.CatalogCacheTTL)
	checkoutUC := usecase.NewCheckoutUsecase(backend)
	searchUC := usecase.NewSearchUsecase(backend, cfg.SearchTimeout)
	cityUC := usecase.NewCityUsecase(cfg.Cities)

	cartHandler := v1.NewCartHandler(sessionUC, productUC, cfg.MaxCartQuantity)
	favoritesHandler := v1.NewFavoritesHandler(sessionUC, productUC)
	filterHandler := v1.NewFilterHandler(sessionUC)
	catalogHandler := v1.NewCatalogHandler(sessionUC, cfg.CatalogPageSize)
	searchHandler := v1.NewSearchHandler(searchUC)
	cityHandler := v1.NewCityHandler(cityUC)
	checkoutHandler := v1.NewCheckoutHandler(sessionUC, checkoutUC)
	sessionHandler := v1.NewSessionHandler(sessionUC)

	// Set up Router
	mux := http.NewServeMux()

	// Cart
	mux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart)
	mux.HandleFunc("POST /api/v1/cart", cartHandler.AddToCart)
	mux.HandleFunc("PUT /api/v1/cart", cartHandler.UpdateCart)
	mux.HandleFunc("DELETE /api/v1/cart/{productId}", cartHandler.RemoveFromCart)
	mux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart)

	// Favorites
	mux.HandleFunc("GET /api/v1/favorites", favoritesHandler.GetFavorites)
	mux.HandleFunc("POST /api/v1/favorites", favoritesHandler.AddFavorite)
	mux.HandleFunc("POST /api/v1/favorites/toggle", favoritesHandler.ToggleFavorite)
	mux.HandleFunc("DELETE /api/v1/favorites/{productId}", favoritesHandler.RemoveFavorite)
	mux.HandleFunc("DELETE /api/v1/favorites", favoritesHandler.ClearFavorites)

	// Filters & Catalog
	mux.HandleFunc("GET /api/v1/filters", filterHandler.GetFilters)
	mux.HandleFunc("PATCH /api/v1/filters", filterHandler.UpdateFilters)
	mux.HandleFunc("DELETE /api/v1/filters", filterHandler.ResetFilters)
	mux.HandleFunc("GET /api/v1/catalog/{category}", catalogHandler.ListCatalog)

	// Search & Checkout
	mux.HandleFunc("GET /api/v1/search", searchHandler.Search)
	mux.HandleFunc("GET /api/v1/cities", cityHandler.Suggest)
	mux.HandleFunc("POST /api/v1/checkout", checkoutHandler.Checkout)
	mux.HandleFunc("POST /api/v1/session/reset", sessionHandler.Reset)

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"storage": cfg.StorageBackend,
		})
	}

	// Health checks skip the session middleware so probes do not mint sessions.
	root := http.NewServeMux()
	root.HandleFunc("GET /health", healthHandler)
	root.HandleFunc("GET /api/v1/health", healthHandler)
	root.Handle("/", middleware.NewSessionMiddleware(cfg.SessionTTL, cfg.IsProduction())(mux))

	// Initialize Rate Limiter with lifecycle management
	rateLimiter := middleware.NewRateLimiter(
		ctx,
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS, Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg.AllowedOrigin)(root)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart("storefront-bff", "1.0.0", cfg.Port)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop("storefront-bff")
}

// newStateStore builds the snapshot backend selected by STORAGE_BACKEND. The
// returned func releases its resources.
func newStateStore(ctx context.Context, cfg *config.Config) (domain.KeyValueStore, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPgxPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewStateRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		go repo.RunPurge(ctx, time.Hour, cfg.SessionTTL)
		return repo, pool.Close, nil

	case config.StorageR2:
		r2, err := storage.NewR2Storage(ctx, cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2AccessKeySecret, cfg.R2BucketName, cfg.R2Timeout)
		if err != nil {
			return nil, nil, err
		}
		return r2, func() {}, nil

	default:
		mem := cache.NewMemoryCache(cfg.SessionTTL, time.Hour)
		return cache.NewKVStore(mem, cfg.SessionTTL), func() {}, nil
	}
}
