package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"socialfolio/internal/models"
)

// Client talks to the external market-data API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logrus.Logger
	group   singleflight.Group
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type quoteResponse struct {
	Symbol        string              `json:"symbol"`
	CurrentPrice  decimal.Decimal     `json:"current_price"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"change_percent"`
}

type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

type PricePoint struct {
	Date  string          `json:"date"`
	Close decimal.Decimal `json:"close"`
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("market data: status %d: %s", e.StatusCode, e.Body)
}

// normalizeTickers upper-cases, de-duplicates and sorts.
func normalizeTickers(tickers []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, t := range tickers {
		t = models.NormalizeTicker(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Quotes fetches live quotes keyed by symbol. Symbols the API does not know
// are absent from the result. Concurrent calls for the same ticker set share
// one request. The shared request is bounded by the client timeout only, so
// one caller giving up never fails the others.
func (c *Client) Quotes(ctx context.Context, tickers []string) (map[string]models.LiveQuote, error) {
	tickers = normalizeTickers(tickers)
	if len(tickers) == 0 {
		return map[string]models.LiveQuote{}, nil
	}
	key := strings.Join(tickers, ",")
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.fetchQuotes(fetchCtx, key)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.log.Debugf("quotes for %s shared with concurrent request", key)
	}
	// callers own their map
	src := res.Val.(map[string]models.LiveQuote)
	out := make(map[string]models.LiveQuote, len(src))
	for k, q := range src {
		out[k] = q
	}
	return out, nil
}

func (c *Client) fetchQuotes(ctx context.Context, symbols string) (map[string]models.LiveQuote, error) {
	var rows []quoteResponse
	if err := c.get(ctx, "/quotes", url.Values{"symbols": {symbols}}, &rows); err != nil {
		return nil, err
	}
	res := make(map[string]models.LiveQuote, len(rows))
	for _, r := range rows {
		sym := models.NormalizeTicker(r.Symbol)
		if sym == "" {
			continue
		}
		res[sym] = models.LiveQuote{
			Symbol:        sym,
			Current:       r.CurrentPrice,
			Change:        r.Change,
			ChangePercent: r.ChangePercent,
		}
	}
	return res, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	res := []SearchResult{}
	if strings.TrimSpace(query) == "" {
		return res, nil
	}
	if err := c.get(ctx, "/search", url.Values{"q": {strings.TrimSpace(query)}}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) History(ctx context.Context, symbol, period string) ([]PricePoint, error) {
	params := url.Values{}
	if period != "" {
		params.Set("range", period)
	}
	res := []PricePoint{}
	if err := c.get(ctx, "/history/"+url.PathEscape(models.NormalizeTicker(symbol)), params, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("market data %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode market data %s: %w", path, err)
	}
	return nil
}
