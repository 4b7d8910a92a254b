package chart

import (
	"math"
	"strconv"
	"sync"
	"time"

	"market-data-backend/internal/bus"
	"market-data-backend/internal/models"

	"go.uber.org/zap"
)

const (
	// Interval is the fixed bucket width.
	Interval = time.Second
	// BaselineWindow is the trailing window for the moving-average
	// baseline, in interval widths.
	BaselineWindow = 10
	// Retention is how long buckets are kept, relative to the most
	// recent trade.
	Retention = time.Hour
)

// bucket accumulates trades for one interval. The stored mean always
// equals the arithmetic mean of every price assigned so far.
type bucket struct {
	mean  float64
	count int64
}

type windowEntry struct {
	bucketTime int64
	value      float64
}

// Aggregator consumes priceUpdate trades, buckets them into fixed 1s
// intervals with a running mean, tracks a trailing baseline over the last
// BaselineWindow intervals, and emits a chart point per trade on the
// chartUpdate topic. Buckets older than Retention relative to the current
// trade are pruned after each emission.
type Aggregator struct {
	bus    *bus.Bus
	logger *zap.Logger

	mu      sync.Mutex
	buckets map[int64]*bucket // keyed by interval-aligned start, ms
	window  []windowEntry
}

func NewAggregator(b *bus.Bus, logger *zap.Logger) *Aggregator {
	a := &Aggregator{
		bus:     b,
		logger:  logger.Named("chart"),
		buckets: make(map[int64]*bucket),
	}
	b.Subscribe(bus.TopicPriceUpdate, func(payload any) {
		trade, ok := payload.(models.Trade)
		if !ok {
			return
		}
		a.OnTrade(trade)
	})
	return a
}

// OnTrade folds one trade into its bucket and emits the resulting chart
// point.
func (a *Aggregator) OnTrade(trade models.Trade) {
	price, err := strconv.ParseFloat(trade.Price, 64)
	if err != nil {
		// The ingestor validates prices; anything else on this topic
		// is dropped the same way.
		a.logger.Error("dropping trade with unparseable price",
			zap.String("price", trade.Price), zap.Error(err))
		return
	}

	ts := trade.Timestamp.UnixMilli()
	intervalMs := Interval.Milliseconds()
	bucketStart := (ts / intervalMs) * intervalMs

	a.mu.Lock()
	bkt, ok := a.buckets[bucketStart]
	if !ok {
		bkt = &bucket{mean: price, count: 1}
		a.buckets[bucketStart] = bkt
	} else {
		bkt.mean = (bkt.mean*float64(bkt.count) + price) / float64(bkt.count+1)
		bkt.count++
	}

	a.window = append(a.window, windowEntry{bucketTime: bucketStart, value: price})
	cutoff := ts - BaselineWindow*intervalMs
	for len(a.window) > 0 && a.window[0].bucketTime < cutoff {
		a.window = a.window[1:]
	}

	baseline := price
	if len(a.window) > 0 {
		var sum float64
		for _, e := range a.window {
			sum += e.value
		}
		baseline = sum / float64(len(a.window))
	}

	point := models.ChartPoint{
		Time:     ts / 1000,
		Value:    round2(bkt.mean),
		Baseline: round2(baseline),
	}

	retentionCutoff := ts - Retention.Milliseconds()
	for start := range a.buckets {
		if start < retentionCutoff {
			delete(a.buckets, start)
		}
	}
	a.mu.Unlock()

	a.bus.Publish(bus.TopicChartUpdate, point)
}

// BucketMean returns the running mean and sample count for the bucket
// containing the given millisecond timestamp.
func (a *Aggregator) BucketMean(ts int64) (mean float64, count int64, ok bool) {
	intervalMs := Interval.Milliseconds()
	start := (ts / intervalMs) * intervalMs

	a.mu.Lock()
	defer a.mu.Unlock()
	bkt, found := a.buckets[start]
	if !found {
		return 0, 0, false
	}
	return bkt.mean, bkt.count, true
}

// BucketCount returns how many buckets are currently retained.
func (a *Aggregator) BucketCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buckets)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
