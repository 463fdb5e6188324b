package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"socialfolio/internal/models"
)

// Cache stores recent live quotes.
type Cache interface {
	// GetQuotes returns the cached quotes and the tickers that had none.
	GetQuotes(ctx context.Context, tickers []string) (map[string]models.LiveQuote, []string, error)
	SetQuotes(ctx context.Context, quotes map[string]models.LiveQuote, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewRedisCache connects to the Redis instance at redisURL and pings it.
func NewRedisCache(ctx context.Context, redisURL string, log *logrus.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisCache{client: client, log: log}, nil
}

func quoteKey(ticker string) string {
	return "quote:" + ticker
}

func (c *RedisCache) GetQuotes(ctx context.Context, tickers []string) (map[string]models.LiveQuote, []string, error) {
	found := map[string]models.LiveQuote{}
	if len(tickers) == 0 {
		return found, nil, nil
	}
	keys := make([]string, len(tickers))
	for i, t := range tickers {
		keys[i] = quoteKey(t)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, tickers, err
	}

	missing := []string{}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, tickers[i])
			continue
		}
		var q models.LiveQuote
		if err := json.Unmarshal([]byte(s), &q); err != nil {
			c.log.Warnf("drop corrupt cached quote %s: %v", tickers[i], err)
			missing = append(missing, tickers[i])
			continue
		}
		found[tickers[i]] = q
	}
	return found, missing, nil
}

func (c *RedisCache) SetQuotes(ctx context.Context, quotes map[string]models.LiveQuote, ttl time.Duration) error {
	if len(quotes) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for ticker, q := range quotes {
		data, err := json.Marshal(q)
		if err != nil {
			return err
		}
		pipe.Set(ctx, quoteKey(ticker), data, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
