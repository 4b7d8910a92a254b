package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"market-data-backend/internal/models"

	"go.uber.org/zap"
)

// Client talks to the Binance REST API (ticker price and klines).
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.Named("binance"),
	}
}

type tickerPriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// TickerPrice returns the latest traded price for the symbol as the
// upstream reports it, a decimal string.
func (c *Client) TickerPrice(ctx context.Context, symbol string) (string, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	body, err := c.get(ctx, "/ticker/price", q)
	if err != nil {
		return "", err
	}

	var res tickerPriceResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decoding ticker price response: %w", err)
	}
	return res.Price, nil
}

// Klines fetches up to limit 1m candles for [startTime, endTime], both in
// epoch milliseconds. The upstream response is an ordered array of
// [openTime, open, high, low, close, ...] tuples.
func (c *Client) Klines(ctx context.Context, symbol string, startTime, endTime int64, limit int) ([]models.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", "1m")
	q.Set("startTime", strconv.FormatInt(startTime, 10))
	q.Set("endTime", strconv.FormatInt(endTime, 10))
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/klines", q)
	if err != nil {
		return nil, err
	}

	var raw [][]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding klines response: %w", err)
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, tuple := range raw {
		candle, err := parseKline(tuple)
		if err != nil {
			return nil, fmt.Errorf("decoding kline tuple: %w", err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseKline(tuple []any) (models.Candle, error) {
	if len(tuple) < 5 {
		return models.Candle{}, fmt.Errorf("kline tuple has %d fields, want at least 5", len(tuple))
	}

	openTime, ok := tuple[0].(float64)
	if !ok {
		return models.Candle{}, fmt.Errorf("kline open time is %T, want number", tuple[0])
	}

	prices := make([]float64, 4)
	for i := 0; i < 4; i++ {
		s, ok := tuple[i+1].(string)
		if !ok {
			return models.Candle{}, fmt.Errorf("kline field %d is %T, want string", i+1, tuple[i+1])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("kline field %d: %w", i+1, err)
		}
		prices[i] = v
	}

	return models.Candle{
		Time:  int64(openTime) / 1000,
		Open:  prices[0],
		High:  prices[1],
		Low:   prices[2],
		Close: prices[3],
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: retryAfter(res)}
	case res.StatusCode < 200 || res.StatusCode > 299:
		c.logger.Warn("upstream request failed",
			zap.String("path", path),
			zap.Int("status", res.StatusCode))
		return nil, &UpstreamError{StatusCode: res.StatusCode, Body: string(body)}
	}
	return body, nil
}

// retryAfter reads the Retry-After header, in seconds per the upstream API.
func retryAfter(res *http.Response) time.Duration {
	v := res.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
