package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"socialfolio/internal/models"
)

var ErrNotFound = errors.New("not found")

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqInvalidText         = "22P02"
)

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// notFound maps missing rows and ids that reference nothing to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	switch pqCode(err) {
	case pqForeignKeyViolation, pqInvalidText:
		return ErrNotFound
	}
	return err
}

func (r *Repo) EnsureUserExists(ctx context.Context, userID, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, userID, name)
	return err
}

func (r *Repo) CreatePortfolio(ctx context.Context, p models.Portfolio) (models.Portfolio, error) {
	p.ID = uuid.NewString()
	q := `INSERT INTO portfolios (id, owner_id, name, description, is_public, created_at) VALUES ($1, $2, $3, $4, $5, now()) RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, q, p.ID, p.OwnerID, p.Name, p.Description, p.IsPublic).Scan(&p.CreatedAt); err != nil {
		return models.Portfolio{}, notFound(err)
	}
	return p, nil
}

func (r *Repo) GetPortfolio(ctx context.Context, portfolioID string) (*models.Portfolio, error) {
	if _, err := uuid.Parse(portfolioID); err != nil {
		return nil, ErrNotFound
	}
	var p models.Portfolio
	if err := r.db.GetContext(ctx, &p, `SELECT id, owner_id, name, description, is_public, created_at FROM portfolios WHERE id = $1`, portfolioID); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *Repo) ListPortfolios(ctx context.Context, ownerID string, publicOnly bool) ([]models.Portfolio, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT id, owner_id, name, description, is_public, created_at FROM portfolios WHERE owner_id = $1 AND (is_public OR NOT $2) ORDER BY created_at ASC`, ownerID, publicOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Portfolio{}
	for rows.Next() {
		var p models.Portfolio
		if err := rows.StructScan(&p); err != nil {
			r.log.Warnf("scan portfolio failed: %v", err)
			continue
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *Repo) ListPortfolioIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM portfolios ORDER BY id`); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repo) GetHoldings(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT portfolio_id, ticker, quantity, average_price, total_invested, updated_at FROM holdings WHERE portfolio_id = $1 ORDER BY ticker`, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Holding{}
	for rows.Next() {
		var h models.Holding
		if err := rows.StructScan(&h); err != nil {
			r.log.Warnf("scan holding failed: %v", err)
			continue
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

const replayQuery = `SELECT id FROM transactions WHERE portfolio_id = $1 AND idempotency_key = $2 LIMIT 1`

// RecordTransaction stores the transaction and applies it to the holding in
// one database transaction. A replayed idempotency key returns the id of the
// original row with created=false.
func (r *Repo) RecordTransaction(ctx context.Context, t models.Transaction) (string, bool, error) {
	if t.IdempotencyKey != "" {
		var existingID sql.NullString
		err := r.db.GetContext(ctx, &existingID, replayQuery, t.PortfolioID, t.IdempotencyKey)
		if err == nil && existingID.Valid {
			return existingID.String, false, nil
		}
	}
	if t.ExecutedAt.IsZero() {
		t.ExecutedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", false, err
	}
	defer tx.Rollback()

	// serializes writers per portfolio, including the first buy of a ticker
	var locked string
	if err := tx.GetContext(ctx, &locked, `SELECT id FROM portfolios WHERE id = $1 FOR UPDATE`, t.PortfolioID); err != nil {
		return "", false, notFound(err)
	}

	var current models.Holding
	err = tx.GetContext(ctx, &current, `SELECT portfolio_id, ticker, quantity, average_price, total_invested, updated_at FROM holdings WHERE portfolio_id = $1 AND ticker = $2`, t.PortfolioID, t.Ticker)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}
	next, err := current.Apply(t)
	if err != nil {
		return "", false, err
	}

	id := uuid.NewString()
	q := `INSERT INTO transactions (id, portfolio_id, ticker, side, quantity, price, executed_at, idempotency_key, source) VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, NULLIF($8, ''), $9)`
	if _, err := tx.ExecContext(ctx, q, id, t.PortfolioID, t.Ticker, t.Side, t.Quantity.String(), t.Price.String(), t.ExecutedAt, t.IdempotencyKey, t.Source); err != nil {
		if pqCode(err) == pqUniqueViolation && t.IdempotencyKey != "" {
			tx.Rollback()
			var existing string
			if err := r.db.GetContext(ctx, &existing, replayQuery, t.PortfolioID, t.IdempotencyKey); err == nil {
				return existing, false, nil
			}
		}
		return "", false, err
	}

	if next.Closed() {
		if _, err := tx.ExecContext(ctx, `DELETE FROM holdings WHERE portfolio_id = $1 AND ticker = $2`, t.PortfolioID, t.Ticker); err != nil {
			return "", false, err
		}
	} else {
		upsert := `INSERT INTO holdings (portfolio_id, ticker, quantity, average_price, total_invested, updated_at) VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, now())
			ON CONFLICT (portfolio_id, ticker) DO UPDATE SET quantity = EXCLUDED.quantity, average_price = EXCLUDED.average_price, total_invested = EXCLUDED.total_invested, updated_at = now()`
		if _, err := tx.ExecContext(ctx, upsert, t.PortfolioID, t.Ticker, next.Quantity.String(), next.AveragePrice.StringFixed(8), next.TotalInvested.StringFixed(8)); err != nil {
			return "", false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (r *Repo) ListTransactions(ctx context.Context, portfolioID string) ([]models.Transaction, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT id, portfolio_id, ticker, side, quantity, price, executed_at, COALESCE(idempotency_key, '') AS idempotency_key, source FROM transactions WHERE portfolio_id = $1 ORDER BY executed_at DESC, created_at DESC`, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.StructScan(&t); err != nil {
			r.log.Warnf("scan transaction failed: %v", err)
			continue
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
