package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"orders-backend/docs"
	"orders-backend/internal/cache"
	"orders-backend/internal/dal"
	"orders-backend/internal/database"
	"orders-backend/internal/handlers"
	"orders-backend/internal/services"
	"orders-backend/internal/session"
	"orders-backend/internal/store"
	"orders-backend/internal/supabase"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	cacheOpts := []cache.Option{cache.WithLogger(logger)}
	if cfg.UsingDevelopmentSecret() {
		logger.Warn("JWT_SECRET not set; signing sessions with the development secret")
	}
	jwtResolver := session.NewJWTResolver(cfg.JWTSecret, cfg.SessionTTL)
	resolvers := session.Chain{jwtResolver}
	var images services.ImageStore

	if cfg.SupabaseEnabled() {
		supabaseClient, err := supabase.NewClient(cfg)
		if err != nil {
			return err
		}
		resolvers = append(resolvers, supabase.NewAuthResolver(supabaseClient))
		cacheOpts = append(cacheOpts, cache.WithBroadcaster(supabase.NewRealtimeClient(cfg.SupabaseURL, cfg.SupabasePublishableKey)))

		storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
		if err != nil {
			return err
		}
		images = storageClient
	} else {
		logger.Warn("Supabase not configured; image uploads and cache broadcasts are disabled")
	}

	c := cache.New(cfg.CacheTTL, cacheOpts...)
	d := dal.New(st,
		dal.WithCache(c),
		dal.WithLogger(logger),
		dal.WithDelay(cfg.MockDelay),
		dal.WithPrerender(cfg.Prerendering()),
	)

	orders := services.NewOrderService(st, c, logger)

	h := handlers.Handlers{
		Health:    handlers.NewHealthHandler(st, logger),
		Orders:    handlers.NewOrdersHandler(d, orders),
		Users:     handlers.NewUsersHandler(d, services.NewUserService(st, c, logger)),
		Products:  handlers.NewProductsHandler(d, services.NewProductService(st, images, c, logger)),
		Elements:  handlers.NewElementsHandler(d),
		Auth:      handlers.NewAuthHandler(d, services.NewAuthService(d, jwtResolver, logger)),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(d)),
		Actions:   handlers.NewActionsHandler(services.NewOrderActions(orders, d)),
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	handlers.RegisterRoutes(router, h, resolvers, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects to Postgres and applies pending migrations. Without
// DATABASE_URL it falls back to a seeded in-memory store.
func openStore(ctx context.Context) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set; using the in-memory store")
		mem := store.NewMemory()
		data, err := database.DefaultSeedData()
		if err != nil {
			return nil, nil, err
		}
		if _, err := database.NewSeeder(mem, logger).SeedAll(ctx, data); err != nil {
			return nil, nil, err
		}
		return mem, func() {}, nil
	}

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	migrator := database.NewMigratorFromDB(dbClient.DB(), logger)
	applied, err := migrator.Run(ctx)
	if err != nil {
		dbClient.Close()
		return nil, nil, err
	}
	logger.Info("Migrations completed successfully", zap.Int("applied", applied))

	return dbClient, func() { dbClient.Close() }, nil
}
