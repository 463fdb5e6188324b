package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"socialfolio/internal/models"
)

// GetStoredPrices returns the cached price of every requested ticker that has
// one. Tickers without a row are absent from the map.
func (r *Repo) GetStoredPrices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	res := map[string]decimal.Decimal{}
	if len(tickers) == 0 {
		return res, nil
	}
	rows, err := r.db.QueryxContext(ctx, `SELECT ticker, price, last_updated FROM ticker_prices WHERE ticker = ANY($1)`, pq.Array(tickers))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p models.StoredTickerPrice
		if err := rows.StructScan(&p); err != nil {
			r.log.Warnf("scan ticker price failed: %v", err)
			continue
		}
		res[p.Ticker] = p.Price
	}
	return res, rows.Err()
}

func (r *Repo) UpsertTickerPrices(ctx context.Context, prices []models.StoredTickerPrice) error {
	if len(prices) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := `INSERT INTO ticker_prices (ticker, price, last_updated) VALUES ($1, $2::numeric, $3)
		ON CONFLICT (ticker) DO UPDATE SET price = EXCLUDED.price, last_updated = EXCLUDED.last_updated
		WHERE ticker_prices.last_updated <= EXCLUDED.last_updated`
	for _, p := range prices {
		if _, err := tx.ExecContext(ctx, q, p.Ticker, p.Price.StringFixed(8), p.LastUpdated); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) ListHeldTickers(ctx context.Context) ([]string, error) {
	res := []string{}
	if err := r.db.SelectContext(ctx, &res, `SELECT DISTINCT ticker FROM holdings ORDER BY ticker`); err != nil {
		return nil, err
	}
	return res, nil
}

// GetStoredValuation returns nil without error when the portfolio has no
// snapshot yet.
func (r *Repo) GetStoredValuation(ctx context.Context, portfolioID string) (*models.StoredPortfolioValuation, error) {
	var v models.StoredPortfolioValuation
	err := r.db.GetContext(ctx, &v, `SELECT portfolio_id, total_value, total_return_percentage, updated_at FROM portfolio_valuations WHERE portfolio_id = $1`, portfolioID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) UpsertPortfolioValuation(ctx context.Context, v models.StoredPortfolioValuation) error {
	q := `INSERT INTO portfolio_valuations (portfolio_id, total_value, total_return_percentage, updated_at) VALUES ($1, $2::numeric, $3::numeric, now())
		ON CONFLICT (portfolio_id) DO UPDATE SET total_value = EXCLUDED.total_value, total_return_percentage = EXCLUDED.total_return_percentage, updated_at = now()`
	_, err := r.db.ExecContext(ctx, q, v.PortfolioID, v.TotalValue.StringFixed(8), v.TotalReturnPercentage.StringFixed(8))
	return notFound(err)
}
