package marketdata

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"socialfolio/internal/models"
)

type quoteFetcher interface {
	Quotes(ctx context.Context, tickers []string) (map[string]models.LiveQuote, error)
}

// CachedSource serves quotes from the cache and asks upstream only for the
// tickers the cache is missing. Cache failures fall through to upstream.
type CachedSource struct {
	upstream quoteFetcher
	cache    Cache
	ttl      time.Duration
	log      *logrus.Logger
}

func NewCachedSource(upstream quoteFetcher, cache Cache, ttl time.Duration, log *logrus.Logger) *CachedSource {
	return &CachedSource{upstream: upstream, cache: cache, ttl: ttl, log: log}
}

func (s *CachedSource) Quotes(ctx context.Context, tickers []string) (map[string]models.LiveQuote, error) {
	tickers = normalizeTickers(tickers)
	if len(tickers) == 0 {
		return map[string]models.LiveQuote{}, nil
	}

	found, missing, err := s.cache.GetQuotes(ctx, tickers)
	if err != nil {
		s.log.Warnf("quote cache read failed, fetching all: %v", err)
		found, missing = map[string]models.LiveQuote{}, tickers
	}
	if len(missing) == 0 {
		return found, nil
	}

	fresh, err := s.upstream.Quotes(ctx, missing)
	if err != nil {
		if len(found) == 0 {
			return nil, err
		}
		s.log.Warnf("serving %d cached quotes, upstream failed for %v: %v", len(found), missing, err)
		return found, nil
	}
	if err := s.cache.SetQuotes(ctx, fresh, s.ttl); err != nil {
		s.log.Warnf("quote cache write failed: %v", err)
	}
	for k, q := range fresh {
		found[k] = q
	}
	return found, nil
}
