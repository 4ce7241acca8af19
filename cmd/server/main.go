package main

import (
	"github.com/labstack/echo/v4"

	"github.com/avdonin/record-store/internal/config"
	"github.com/avdonin/record-store/internal/database"
	"github.com/avdonin/record-store/internal/handler"
	"github.com/avdonin/record-store/internal/middleware"
	"github.com/avdonin/record-store/internal/queue"
	"github.com/avdonin/record-store/internal/repository"
	"github.com/avdonin/record-store/internal/router"
	"github.com/avdonin/record-store/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "dev"})

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	// Redis is optional: without it rate limiting and the response
	// cache silently turn into pass-throughs.
	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	recordRepo := repository.NewRecordRepo(db)
	ensembleRepo := repository.NewEnsembleRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)
	cartRepo := repository.NewCartRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	recordH := handler.NewRecordHandler(recordRepo)
	ensembleH := handler.NewEnsembleHandler(ensembleRepo)
	userAdminH := handler.NewUserAdminHandler(cfg, userRepo)
	catalogH := handler.NewCatalogHandler(recordRepo, ensembleRepo, catalogRepo)
	cartH := handler.NewCartHandler(cartRepo)
	purchaseH := handler.NewPurchaseHandler(purchaseRepo, cartRepo, recordRepo, userRepo)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, cfg.JWTSecret, cache)
	router.RegisterManage(e, recordH, ensembleH, userAdminH, cfg.JWTSecret)
	router.RegisterBuyer(e, cartH, purchaseH, cfg.JWTSecret)

	// Audit consumer runs for the lifetime of the process and
	// reconnects on its own; a missing broker only costs the audit log.
	go func() {
		if err := queue.StartPurchaseConsumer(); err != nil {
			log.Warn().Err(err).Msg("purchase consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
