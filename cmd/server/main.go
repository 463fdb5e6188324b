package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"socialfolio/internal/auth"
	"socialfolio/internal/config"
	"socialfolio/internal/database"
	"socialfolio/internal/handlers"
	"socialfolio/internal/marketdata"
	"socialfolio/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.NewLogger()

	db, err := initDB(cfg.PostgresURL)
	if err != nil {
		logger.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := database.New(db, logger)
	client := marketdata.NewClient(cfg.MarketDataURL, cfg.MarketDataAPIKey, cfg.MarketDataTimeout, logger)

	var quotes service.QuoteSource = client
	if cfg.RedisURL != "" {
		cache, err := marketdata.NewRedisCache(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Warnf("quote cache disabled: %v", err)
		} else {
			defer cache.Close()
			quotes = marketdata.NewCachedSource(client, cache, cfg.QuoteCacheTTL, logger)
			logger.Infof("quote cache enabled, ttl %s", cfg.QuoteCacheTTL)
		}
	}

	portfolios := service.NewPortfolioService(repo, quotes, logger)
	social := service.NewSocialService(repo, logger)

	// the refresher always reads upstream so stored prices never lag the cache
	refresher := service.NewPriceRefresher(repo, client, logger)
	refresher.Start(ctx, cfg.PriceUpdateInterval)

	h := handlers.NewHandler(portfolios, social, quotes, client, logger)

	rg := gin.Default()
	rg.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	rg.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	h.Register(rg.Group("/", auth.Middleware(cfg.JWTSecret)))

	logger.Infof("server starting on :%s", cfg.Port)
	if err := rg.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AddAllowHeaders("Authorization", "Idempotency-Key")
	return c
}

func initDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}
