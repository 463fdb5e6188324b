package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"socialfolio/internal/importer"
	"socialfolio/internal/models"
	"socialfolio/internal/valuation"
)

const defaultLiveQuoteTimeout = 3 * time.Second

type PortfolioService struct {
	store            Store
	quotes           QuoteSource
	log              *logrus.Logger
	liveQuoteTimeout time.Duration
}

func NewPortfolioService(store Store, quotes QuoteSource, log *logrus.Logger) *PortfolioService {
	return &PortfolioService{store: store, quotes: quotes, log: log, liveQuoteTimeout: defaultLiveQuoteTimeout}
}

// PortfolioValuation is the aggregated view plus whether live prices were
// unavailable when it was built.
type PortfolioValuation struct {
	valuation.PortfolioView
	IsLoadingPrices bool `json:"is_loading_prices"`
}

type PortfolioInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func (s *PortfolioService) visiblePortfolio(ctx context.Context, viewerID, portfolioID string) (*models.Portfolio, error) {
	p, err := s.store.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if !p.IsPublic && p.OwnerID != viewerID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *PortfolioService) ownedPortfolio(ctx context.Context, userID, portfolioID string) (*models.Portfolio, error) {
	p, err := s.store.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != userID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *PortfolioService) CreatePortfolio(ctx context.Context, ownerID string, in PortfolioInput) (models.Portfolio, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return models.Portfolio{}, fmt.Errorf("%w: name must be 1-100 characters", ErrInvalidInput)
	}
	if err := s.store.EnsureUserExists(ctx, ownerID, ""); err != nil {
		return models.Portfolio{}, fmt.Errorf("ensure user: %w", err)
	}
	return s.store.CreatePortfolio(ctx, models.Portfolio{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		IsPublic:    in.IsPublic,
	})
}

// ListPortfolios shows a user everything they own and only the public
// portfolios of others.
func (s *PortfolioService) ListPortfolios(ctx context.Context, viewerID, ownerID string) ([]models.Portfolio, error) {
	return s.store.ListPortfolios(ctx, ownerID, viewerID != ownerID)
}

// Valuation loads the portfolio and its holdings, then fetches the stored
// valuation, stored prices and live quotes concurrently. Only the holdings
// load is fatal; any other source that fails is treated as absent.
func (s *PortfolioService) Valuation(ctx context.Context, viewerID, portfolioID string) (*PortfolioValuation, error) {
	p, err := s.visiblePortfolio(ctx, viewerID, portfolioID)
	if err != nil {
		return nil, err
	}
	holdings, err := s.store.GetHoldings(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	tickers := tickersOf(holdings)

	var (
		stored *models.StoredPortfolioValuation
		prices map[string]decimal.Decimal
		live   map[string]models.LiveQuote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.store.GetStoredValuation(gctx, p.ID)
		if err != nil {
			s.log.Warnf("stored valuation for %s unavailable: %v", p.ID, err)
			return nil
		}
		stored = v
		return nil
	})
	g.Go(func() error {
		m, err := s.store.GetStoredPrices(gctx, tickers)
		if err != nil {
			s.log.Warnf("stored prices for %s unavailable: %v", p.ID, err)
			m = map[string]decimal.Decimal{}
		}
		prices = m
		return nil
	})
	if len(tickers) > 0 {
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, s.liveQuoteTimeout)
			defer cancel()
			q, err := s.quotes.Quotes(qctx, tickers)
			if err != nil {
				s.log.Warnf("live quotes for %s unavailable: %v", p.ID, err)
				return nil
			}
			live = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := valuation.Aggregate(valuation.Inputs{
		Portfolio:       *p,
		Holdings:        holdings,
		LiveQuotes:      live,
		StoredPrices:    prices,
		StoredValuation: stored,
	})
	return &PortfolioValuation{
		PortfolioView:   view,
		IsLoadingPrices: len(tickers) > 0 && live == nil,
	}, nil
}

func (s *PortfolioService) RecordTransaction(ctx context.Context, userID, portfolioID string, t models.Transaction) (string, bool, error) {
	if _, err := s.ownedPortfolio(ctx, userID, portfolioID); err != nil {
		return "", false, err
	}
	t.PortfolioID = portfolioID
	t.Ticker = models.NormalizeTicker(t.Ticker)
	t.Side = strings.ToLower(strings.TrimSpace(t.Side))
	if t.Source == "" {
		t.Source = "manual"
	}
	if err := t.Validate(); err != nil {
		return "", false, err
	}
	return s.store.RecordTransaction(ctx, t)
}

func (s *PortfolioService) ListTransactions(ctx context.Context, viewerID, portfolioID string) ([]models.Transaction, error) {
	p, err := s.visiblePortfolio(ctx, viewerID, portfolioID)
	if err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, p.ID)
}

// Import applies CSV rows in file order and stops at the first row that
// fails. Rows already imported are counted as skipped.
func (s *PortfolioService) Import(ctx context.Context, userID, portfolioID string, r io.Reader) (ImportResult, error) {
	var res ImportResult
	if _, err := s.ownedPortfolio(ctx, userID, portfolioID); err != nil {
		return res, err
	}
	txns, err := importer.Parse(r, portfolioID)
	if err != nil {
		return res, err
	}
	for i, t := range txns {
		_, created, err := s.store.RecordTransaction(ctx, t)
		if err != nil {
			return res, &importer.RowError{Row: i + 1, Err: err}
		}
		if created {
			res.Imported++
		} else {
			res.Skipped++
		}
	}
	s.log.Infof("imported %d transactions into %s (%d skipped)", res.Imported, portfolioID, res.Skipped)
	return res, nil
}
