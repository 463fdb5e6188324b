package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransaction   = errors.New("invalid transaction")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)

const (
	SideBuy  = "buy"
	SideSell = "sell"
)

type Portfolio struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	IsPublic    bool      `db:"is_public" json:"is_public"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Holding struct {
	PortfolioID   string          `db:"portfolio_id" json:"portfolio_id"`
	Ticker        string          `db:"ticker" json:"ticker"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	AveragePrice  decimal.Decimal `db:"average_price" json:"average_price"`
	TotalInvested decimal.Decimal `db:"total_invested" json:"total_invested"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID             string          `db:"id" json:"id"`
	PortfolioID    string          `db:"portfolio_id" json:"portfolio_id"`
	Ticker         string          `db:"ticker" json:"ticker"`
	Side           string          `db:"side" json:"side"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	Price          decimal.Decimal `db:"price" json:"price"`
	ExecutedAt     time.Time       `db:"executed_at" json:"executed_at"`
	IdempotencyKey string          `db:"idempotency_key" json:"idempotency_key,omitempty"`
	Source         string          `db:"source" json:"source"`
}

// StoredPortfolioValuation is the last snapshot written by the price refresher.
type StoredPortfolioValuation struct {
	PortfolioID           string          `db:"portfolio_id" json:"portfolio_id"`
	TotalValue            decimal.Decimal `db:"total_value" json:"total_value"`
	TotalReturnPercentage decimal.Decimal `db:"total_return_percentage" json:"total_return_percentage"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updated_at"`
}

type StoredTickerPrice struct {
	Ticker      string          `db:"ticker" json:"ticker"`
	Price       decimal.Decimal `db:"price" json:"price"`
	LastUpdated time.Time       `db:"last_updated" json:"last_updated"`
}

// LiveQuote is a quote fetched from the market-data API at request time.
// Change and ChangePercent are relative to the previous close and may be
// missing.
type LiveQuote struct {
	Symbol        string              `json:"symbol"`
	Current       decimal.Decimal     `json:"current"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"change_percent"`
}

type Post struct {
	ID          string    `db:"id" json:"id"`
	AuthorID    string    `db:"author_id" json:"author_id"`
	Body        string    `db:"body" json:"body"`
	Ticker      *string   `db:"ticker" json:"ticker,omitempty"`
	PortfolioID *string   `db:"portfolio_id" json:"portfolio_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (t Transaction) Validate() error {
	if t.Side != SideBuy && t.Side != SideSell {
		return errors.Join(ErrInvalidTransaction, errors.New("side must be buy or sell"))
	}
	if t.Ticker == "" {
		return errors.Join(ErrInvalidTransaction, errors.New("ticker is required"))
	}
	if !t.Quantity.IsPositive() {
		return errors.Join(ErrInvalidTransaction, errors.New("quantity must be positive"))
	}
	if t.Price.IsNegative() {
		return errors.Join(ErrInvalidTransaction, errors.New("price must not be negative"))
	}
	return nil
}

// Apply returns the holding after the transaction executes. A zero quantity
// in the result means the position is closed.
func (h Holding) Apply(t Transaction) (Holding, error) {
	if err := t.Validate(); err != nil {
		return h, err
	}
	next := h
	next.Ticker = t.Ticker
	next.PortfolioID = t.PortfolioID
	switch t.Side {
	case SideBuy:
		next.Quantity = h.Quantity.Add(t.Quantity)
		next.TotalInvested = h.TotalInvested.Add(t.Quantity.Mul(t.Price))
		next.AveragePrice = next.TotalInvested.Div(next.Quantity)
	case SideSell:
		if t.Quantity.GreaterThan(h.Quantity) {
			return h, ErrInsufficientQuantity
		}
		next.Quantity = h.Quantity.Sub(t.Quantity)
		next.TotalInvested = next.Quantity.Mul(h.AveragePrice)
	}
	return next, nil
}

func (h Holding) Closed() bool {
	return h.Quantity.IsZero()
}
