package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"socialfolio/internal/models"
)

//go:generate mockgen -source=service.go -destination=mocks/store.go -package=mock_service

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// Store is the persistence the services need; database.Repo implements it.
type Store interface {
	EnsureUserExists(ctx context.Context, userID, name string) error
	CreatePortfolio(ctx context.Context, p models.Portfolio) (models.Portfolio, error)
	GetPortfolio(ctx context.Context, portfolioID string) (*models.Portfolio, error)
	ListPortfolios(ctx context.Context, ownerID string, publicOnly bool) ([]models.Portfolio, error)
	ListPortfolioIDs(ctx context.Context) ([]string, error)
	GetHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error)
	RecordTransaction(ctx context.Context, t models.Transaction) (string, bool, error)
	ListTransactions(ctx context.Context, portfolioID string) ([]models.Transaction, error)

	GetStoredValuation(ctx context.Context, portfolioID string) (*models.StoredPortfolioValuation, error)
	UpsertPortfolioValuation(ctx context.Context, v models.StoredPortfolioValuation) error
	GetStoredPrices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
	UpsertTickerPrices(ctx context.Context, prices []models.StoredTickerPrice) error
	ListHeldTickers(ctx context.Context) ([]string, error)

	FollowUser(ctx context.Context, followerID, followeeID string) error
	UnfollowUser(ctx context.Context, followerID, followeeID string) error
	FollowPortfolio(ctx context.Context, userID, portfolioID string) error
	UnfollowPortfolio(ctx context.Context, userID, portfolioID string) error
	CreatePost(ctx context.Context, p models.Post) (models.Post, error)
	Feed(ctx context.Context, userID string, limit int) ([]models.Post, error)
}

type QuoteSource interface {
	Quotes(ctx context.Context, tickers []string) (map[string]models.LiveQuote, error)
}

func tickersOf(holdings []models.Holding) []string {
	res := make([]string, 0, len(holdings))
	for _, h := range holdings {
		res = append(res, h.Ticker)
	}
	return res
}
