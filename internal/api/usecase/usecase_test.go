package usecase

import (
	"context"
	"testing"
	"time"

	"market-data-backend/internal/api/constant"
	"market-data-backend/internal/models"

	"github.com/go-playground/assert/v2"
)

type stubFetcher struct {
	candles []models.Candle
	lastKey string
}

func (s *stubFetcher) Fetch(ctx context.Context, symbol string, startTime, endTime int64, limit int) []models.Candle {
	s.lastKey = symbol
	return s.candles
}

type stubSnapshot struct {
	price string
	trade *models.Trade
}

func (s *stubSnapshot) LatestPrice() (string, bool) {
	return s.price, s.price != ""
}

func (s *stubSnapshot) LatestTrade() (models.Trade, bool) {
	if s.trade == nil {
		return models.Trade{}, false
	}
	return *s.trade, true
}

func TestGetHistorical(t *testing.T) {
	candles := []models.Candle{{Time: 100, Open: 1, High: 2, Low: 0.5, Close: 1.5}}
	fetcher := &stubFetcher{candles: candles}
	uc := NewUsecase(fetcher, &stubSnapshot{})

	//when
	got := uc.GetHistorical(context.Background(), "BTCUSDT", 1000, 2000, 10)

	//then
	assert.Equal(t, candles, got)
	assert.Equal(t, "BTCUSDT", fetcher.lastKey)
}

func TestGetLatestPrice(t *testing.T) {
	testCases := []struct {
		name        string
		snapshot    *stubSnapshot
		expected    string
		expectedErr error
	}{
		{
			name:        "price available",
			snapshot:    &stubSnapshot{price: "64201.50"},
			expected:    "64201.50",
			expectedErr: nil,
		},
		{
			name:        "nothing ingested yet",
			snapshot:    &stubSnapshot{},
			expected:    "",
			expectedErr: constant.ErrNoPriceYet,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUsecase(&stubFetcher{}, tt.snapshot)

			price, err := uc.GetLatestPrice(context.Background())

			assert.Equal(t, tt.expected, price)
			assert.Equal(t, tt.expectedErr, err)
		})
	}
}

func TestGetLatestTrade(t *testing.T) {
	trade := models.Trade{
		Symbol:    "BTCUSDT",
		Price:     "64201.50",
		Quantity:  "0.012",
		Timestamp: time.UnixMilli(1678886400123),
	}

	testCases := []struct {
		name        string
		snapshot    *stubSnapshot
		expected    models.Trade
		expectedErr error
	}{
		{
			name:        "trade available",
			snapshot:    &stubSnapshot{trade: &trade},
			expected:    trade,
			expectedErr: nil,
		},
		{
			name:        "nothing ingested yet",
			snapshot:    &stubSnapshot{},
			expected:    models.Trade{},
			expectedErr: constant.ErrNoTradeYet,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUsecase(&stubFetcher{}, tt.snapshot)

			got, err := uc.GetLatestTrade(context.Background())

			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expectedErr, err)
		})
	}
}
