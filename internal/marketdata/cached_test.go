package marketdata

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfolio/internal/models"
)

type memCache struct {
	quotes  map[string]models.LiveQuote
	readErr error
	ttl     time.Duration
}

func (m *memCache) GetQuotes(_ context.Context, tickers []string) (map[string]models.LiveQuote, []string, error) {
	if m.readErr != nil {
		return nil, tickers, m.readErr
	}
	found := map[string]models.LiveQuote{}
	missing := []string{}
	for _, t := range tickers {
		if q, ok := m.quotes[t]; ok {
			found[t] = q
		} else {
			missing = append(missing, t)
		}
	}
	return found, missing, nil
}

func (m *memCache) SetQuotes(_ context.Context, quotes map[string]models.LiveQuote, ttl time.Duration) error {
	for k, q := range quotes {
		m.quotes[k] = q
	}
	m.ttl = ttl
	return nil
}

type stubFetcher struct {
	asked [][]string
	err   error
}

func (s *stubFetcher) Quotes(_ context.Context, tickers []string) (map[string]models.LiveQuote, error) {
	s.asked = append(s.asked, tickers)
	if s.err != nil {
		return nil, s.err
	}
	res := map[string]models.LiveQuote{}
	for _, t := range tickers {
		res[t] = models.LiveQuote{Symbol: t, Current: decimal.NewFromInt(42)}
	}
	return res, nil
}

func TestCachedSource_FetchesOnlyMissing(t *testing.T) {
	cache := &memCache{quotes: map[string]models.LiveQuote{
		"AAPL": {Symbol: "AAPL", Current: decimal.NewFromInt(120)},
	}}
	upstream := &stubFetcher{}
	src := NewCachedSource(upstream, cache, time.Minute, logrus.New())

	quotes, err := src.Quotes(context.Background(), []string{"aapl", "msft"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.True(t, quotes["AAPL"].Current.Equal(decimal.NewFromInt(120)))
	assert.True(t, quotes["MSFT"].Current.Equal(decimal.NewFromInt(42)))
	require.Equal(t, [][]string{{"MSFT"}}, upstream.asked)
	assert.Contains(t, cache.quotes, "MSFT")
	assert.Equal(t, time.Minute, cache.ttl)

	_, err = src.Quotes(context.Background(), []string{"MSFT", "AAPL"})
	require.NoError(t, err)
	require.Len(t, upstream.asked, 1, "fully cached request should not reach upstream")
}

func TestCachedSource_CacheReadFailureFallsThrough(t *testing.T) {
	cache := &memCache{quotes: map[string]models.LiveQuote{}, readErr: errors.New("connection refused")}
	upstream := &stubFetcher{}
	src := NewCachedSource(upstream, cache, time.Minute, logrus.New())

	quotes, err := src.Quotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	require.Equal(t, [][]string{{"AAPL"}}, upstream.asked)
}

func TestCachedSource_UpstreamFailure(t *testing.T) {
	upstream := &stubFetcher{err: errors.New("boom")}

	empty := NewCachedSource(upstream, &memCache{quotes: map[string]models.LiveQuote{}}, time.Minute, logrus.New())
	_, err := empty.Quotes(context.Background(), []string{"AAPL"})
	require.Error(t, err)

	partial := NewCachedSource(upstream, &memCache{quotes: map[string]models.LiveQuote{
		"AAPL": {Symbol: "AAPL", Current: decimal.NewFromInt(1)},
	}}, time.Minute, logrus.New())
	quotes, err := partial.Quotes(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set; skipping integration tests")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, logrus.New())
	require.NoError(t, err)
	defer c.Close()

	q := models.LiveQuote{
		Symbol:        "ZZCACHE",
		Current:       decimal.RequireFromString("10.5"),
		ChangePercent: decimal.NewNullDecimal(decimal.RequireFromString("-1.2")),
	}
	require.NoError(t, c.SetQuotes(ctx, map[string]models.LiveQuote{"ZZCACHE": q}, time.Minute))

	found, missing, err := c.GetQuotes(ctx, []string{"ZZCACHE", "ZZNOPE"})
	require.NoError(t, err)
	require.Equal(t, []string{"ZZNOPE"}, missing)
	got := found["ZZCACHE"]
	assert.True(t, got.Current.Equal(q.Current))
	assert.False(t, got.Change.Valid)
	assert.True(t, got.ChangePercent.Valid)
	assert.True(t, got.ChangePercent.Decimal.Equal(q.ChangePercent.Decimal))
}
