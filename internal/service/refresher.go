package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"socialfolio/internal/models"
	"socialfolio/internal/valuation"
)

const quoteBatchSize = 50

// PriceRefresher writes the stored fallbacks the valuation view reads when
// live quotes are missing: one price per held ticker and one valuation
// snapshot per portfolio.
type PriceRefresher struct {
	store  Store
	quotes QuoteSource
	log    *logrus.Logger
	now    func() time.Time
}

func NewPriceRefresher(store Store, quotes QuoteSource, log *logrus.Logger) *PriceRefresher {
	return &PriceRefresher{store: store, quotes: quotes, log: log, now: time.Now}
}

type RefreshResult struct {
	PricesUpdated    int
	SnapshotsWritten int
	Failures         int
}

func (p *PriceRefresher) refreshPrices(ctx context.Context, res *RefreshResult) error {
	tickers, err := p.store.ListHeldTickers(ctx)
	if err != nil {
		return err
	}
	for start := 0; start < len(tickers); start += quoteBatchSize {
		end := start + quoteBatchSize
		if end > len(tickers) {
			end = len(tickers)
		}
		batch := tickers[start:end]
		quotes, err := p.quotes.Quotes(ctx, batch)
		if err != nil {
			p.log.Warnf("quote batch %d-%d failed: %v", start, end, err)
			res.Failures++
			continue
		}
		ts := p.now().UTC()
		prices := make([]models.StoredTickerPrice, 0, len(quotes))
		for _, t := range batch {
			q, ok := quotes[t]
			if !ok {
				continue
			}
			prices = append(prices, models.StoredTickerPrice{Ticker: t, Price: q.Current, LastUpdated: ts})
		}
		if err := p.store.UpsertTickerPrices(ctx, prices); err != nil {
			p.log.Warnf("store prices for batch %d-%d failed: %v", start, end, err)
			res.Failures++
			continue
		}
		res.PricesUpdated += len(prices)
	}
	return nil
}

func (p *PriceRefresher) snapshot(ctx context.Context, portfolioID string) error {
	holdings, err := p.store.GetHoldings(ctx, portfolioID)
	if err != nil {
		return err
	}
	prices, err := p.store.GetStoredPrices(ctx, tickersOf(holdings))
	if err != nil {
		return err
	}
	view := valuation.Aggregate(valuation.Inputs{
		Portfolio:    models.Portfolio{ID: portfolioID},
		Holdings:     holdings,
		StoredPrices: prices,
	})
	return p.store.UpsertPortfolioValuation(ctx, models.StoredPortfolioValuation{
		PortfolioID:           portfolioID,
		TotalValue:            view.TotalValue,
		TotalReturnPercentage: view.AllTimeReturnPercentage,
	})
}

// RunOnce refreshes stored prices for every held ticker, then rewrites every
// portfolio's valuation snapshot from them. Individual failures are logged
// and counted; only failing to list the work is returned as an error.
func (p *PriceRefresher) RunOnce(ctx context.Context) (RefreshResult, error) {
	var res RefreshResult
	if err := p.refreshPrices(ctx, &res); err != nil {
		return res, err
	}
	ids, err := p.store.ListPortfolioIDs(ctx)
	if err != nil {
		return res, err
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if err := p.snapshot(ctx, id); err != nil {
			p.log.Warnf("snapshot for portfolio %s failed: %v", id, err)
			res.Failures++
			continue
		}
		res.SnapshotsWritten++
	}
	return res, nil
}

func (p *PriceRefresher) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.log.Info("price refresher stopping")
				return
			case <-ticker.C:
				res, err := p.RunOnce(ctx)
				if err != nil {
					p.log.Warnf("price refresh failed: %v", err)
					continue
				}
				p.log.WithFields(logrus.Fields{
					"prices":    res.PricesUpdated,
					"snapshots": res.SnapshotsWritten,
					"failures":  res.Failures,
				}).Info("price refresh done")
			}
		}
	}()
}
