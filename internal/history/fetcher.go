package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"market-data-backend/internal/models"

	"go.uber.org/zap"
)

const (
	// MaxPerRequest is the upstream per-request candle cap.
	MaxPerRequest = 1000
	// CacheTTL bounds how long a fetched range is served from cache.
	CacheTTL = 60 * time.Second

	defaultMaxRetries = 3
	defaultRetryDelay = 10 * time.Second
)

// KlineSource is the upstream candle lookup, normally the Binance REST
// client.
type KlineSource interface {
	Klines(ctx context.Context, symbol string, startTime, endTime int64, limit int) ([]models.Candle, error)
}

type cacheEntry struct {
	candles   []models.Candle
	fetchedAt time.Time
}

// Fetcher serves bounded-range OHLC queries by splitting them into
// chunked upstream sub-requests, retrying on rate limits, and caching the
// full result under the query key for CacheTTL. All failures, including
// invalid parameters, yield an empty result rather than an error: the
// transport layer decides how to surface that. Concurrent fetches for the
// same key may both reach upstream; the cache is last-write-wins.
type Fetcher struct {
	source KlineSource
	retry  RetryPolicy
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewFetcher(source KlineSource, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		source: source,
		retry:  NewRetryPolicy(defaultMaxRetries, defaultRetryDelay),
		logger: logger.Named("history"),
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
}

// Fetch returns up to limit 1m candles for [startTime, endTime], both in
// epoch milliseconds.
func (f *Fetcher) Fetch(ctx context.Context, symbol string, startTime, endTime int64, limit int) []models.Candle {
	if symbol == "" || startTime >= endTime || limit <= 0 {
		f.logger.Error("invalid fetch parameters",
			zap.String("symbol", symbol),
			zap.Int64("startTime", startTime),
			zap.Int64("endTime", endTime),
			zap.Int("limit", limit))
		return []models.Candle{}
	}

	// Timestamps in the future are clamped to now.
	nowMs := f.now().UnixMilli()
	if startTime > nowMs || endTime > nowMs {
		f.logger.Warn("clamping future timestamps",
			zap.Int64("startTime", startTime),
			zap.Int64("endTime", endTime),
			zap.Int64("now", nowMs))
		endTime = nowMs
		if startTime > endTime {
			startTime = endTime
		}
	}

	key := fmt.Sprintf("%s-%d-%d-%d", symbol, startTime, endTime, limit)
	if candles, ok := f.cached(key); ok {
		f.logger.Debug("serving cached candles", zap.String("key", key))
		return candles
	}

	requestsNeeded := (limit + MaxPerRequest - 1) / MaxPerRequest
	chunkWidth := float64(endTime-startTime) / float64(requestsNeeded)

	all := make([]models.Candle, 0, limit)
	cursor := float64(startTime)
	for i := 0; i < requestsNeeded; i++ {
		chunkEnd := cursor + chunkWidth
		if chunkEnd > float64(endTime) {
			chunkEnd = float64(endTime)
		}
		chunkLimit := limit - len(all)
		if chunkLimit > MaxPerRequest {
			chunkLimit = MaxPerRequest
		}

		var candles []models.Candle
		err := f.retry.Do(ctx, func() error {
			var err error
			candles, err = f.source.Klines(ctx, symbol,
				int64(cursor), int64(chunkEnd), chunkLimit)
			return err
		})
		if err != nil {
			// No partial results: one failed chunk aborts the call.
			f.logger.Error("historical fetch aborted",
				zap.Int("chunk", i+1),
				zap.Int("of", requestsNeeded),
				zap.Error(err))
			return []models.Candle{}
		}

		all = append(all, candles...)

		// Advance past the last returned candle so adjacent chunks
		// never overlap.
		if len(candles) > 0 {
			cursor = float64(candles[len(candles)-1].Time*1000 + 1000)
		} else {
			cursor = chunkEnd + 1000
		}
	}

	f.store(key, all)
	f.logger.Info("fetched historical candles",
		zap.String("symbol", symbol),
		zap.Int("count", len(all)),
		zap.Int("requests", requestsNeeded))
	return all
}

func (f *Fetcher) cached(key string) ([]models.Candle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[key]
	if !ok || f.now().Sub(entry.fetchedAt) >= CacheTTL {
		return nil, false
	}
	return entry.candles, true
}

// store writes the result and opportunistically sweeps expired entries.
func (f *Fetcher) store(key string, candles []models.Candle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	f.cache[key] = cacheEntry{candles: candles, fetchedAt: now}
	for k, entry := range f.cache {
		if now.Sub(entry.fetchedAt) >= CacheTTL {
			delete(f.cache, k)
		}
	}
}
