// Package importer turns broker CSV exports into transactions.
//
// Expected header: date,side,ticker,quantity,price. Dates are 2006-01-02 or
// RFC3339.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"socialfolio/internal/models"
)

const Source = "csv_import"

var (
	ErrEmpty     = errors.New("csv has no rows")
	ErrMalformed = errors.New("malformed csv")

	// namespace for deterministic idempotency keys of imported rows
	importNamespace = uuid.MustParse("6f1c62b4-3d8e-4f5a-9a57-1c2f0e7b9d41")
)

type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type row struct {
	Date     string `csv:"date"`
	Side     string `csv:"side"`
	Ticker   string `csv:"ticker"`
	Quantity string `csv:"quantity"`
	Price    string `csv:"price"`
}

// importKey hashes the normalized transaction, not its position in the file,
// so rows keep their key when a re-export adds or reorders rows. The n-th
// repeat of an identical row within one file gets ordinal n.
func importKey(t models.Transaction, ordinal int) string {
	parts := []string{
		t.PortfolioID,
		t.ExecutedAt.UTC().Format(time.RFC3339Nano),
		t.Side,
		t.Ticker,
		t.Quantity.String(),
		t.Price.String(),
	}
	if ordinal > 0 {
		parts = append(parts, strconv.Itoa(ordinal))
	}
	return uuid.NewSHA1(importNamespace, []byte(strings.Join(parts, "|"))).String()
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", models.ErrInvalidTransaction, s)
	}
	return t.UTC(), nil
}

// Parse reads every row. Re-parsing the same rows for the same portfolio
// yields the same idempotency keys, so a repeated import records nothing new.
func Parse(r io.Reader, portfolioID string) ([]models.Transaction, error) {
	rows := []row{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	res := make([]models.Transaction, 0, len(rows))
	seen := map[string]int{}
	for i, rw := range rows {
		n := i + 1
		executedAt, err := parseDate(rw.Date)
		if err != nil {
			return nil, &RowError{Row: n, Err: err}
		}
		qty, err := decimal.NewFromString(strings.TrimSpace(rw.Quantity))
		if err != nil {
			return nil, &RowError{Row: n, Err: fmt.Errorf("%w: invalid quantity %q", models.ErrInvalidTransaction, rw.Quantity)}
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rw.Price))
		if err != nil {
			return nil, &RowError{Row: n, Err: fmt.Errorf("%w: invalid price %q", models.ErrInvalidTransaction, rw.Price)}
		}
		t := models.Transaction{
			PortfolioID: portfolioID,
			Ticker:      models.NormalizeTicker(rw.Ticker),
			Side:        strings.ToLower(strings.TrimSpace(rw.Side)),
			Quantity:    qty,
			Price:       price,
			ExecutedAt:  executedAt,
			Source:      Source,
		}
		if err := t.Validate(); err != nil {
			return nil, &RowError{Row: n, Err: err}
		}
		base := importKey(t, 0)
		t.IdempotencyKey = importKey(t, seen[base])
		seen[base]++
		res = append(res, t)
	}
	return res, nil
}
