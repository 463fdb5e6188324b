// Command refresh runs one price refresh and snapshot pass, then exits.
// Useful from cron or right after seeding a database.
package main

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"socialfolio/internal/config"
	"socialfolio/internal/database"
	"socialfolio/internal/marketdata"
	"socialfolio/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.NewLogger()

	db, err := sqlx.Connect("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	repo := database.New(db, logger)
	client := marketdata.NewClient(cfg.MarketDataURL, cfg.MarketDataAPIKey, cfg.MarketDataTimeout, logger)

	start := time.Now()
	res, err := service.NewPriceRefresher(repo, client, logger).RunOnce(ctx)
	if err != nil {
		logger.Fatalf("refresh failed: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"prices":    res.PricesUpdated,
		"snapshots": res.SnapshotsWritten,
		"failures":  res.Failures,
		"took":      time.Since(start).Round(time.Millisecond).String(),
	}).Info("refresh complete")
}
