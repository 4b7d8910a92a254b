package usecase

import (
	"context"

	"market-data-backend/internal/api/constant"
	"market-data-backend/internal/models"
)

// HistoricalFetcher is the core's range-query surface.
type HistoricalFetcher interface {
	Fetch(ctx context.Context, symbol string, startTime, endTime int64, limit int) []models.Candle
}

// MarketSnapshot is the core's latest-state surface, served by the
// ingestor.
type MarketSnapshot interface {
	LatestPrice() (string, bool)
	LatestTrade() (models.Trade, bool)
}

type UsecaseItf interface {
	GetHistorical(ctx context.Context, symbol string, startTime, endTime int64, limit int) []models.Candle
	GetLatestPrice(ctx context.Context) (string, error)
	GetLatestTrade(ctx context.Context) (models.Trade, error)
}

type Usecase struct {
	fetcher  HistoricalFetcher
	snapshot MarketSnapshot
}

func NewUsecase(fetcher HistoricalFetcher, snapshot MarketSnapshot) *Usecase {
	return &Usecase{fetcher: fetcher, snapshot: snapshot}
}

// GetHistorical passes the query through to the fetcher. Invalid ranges
// come back as an empty slice by contract, not an error.
func (uc *Usecase) GetHistorical(ctx context.Context, symbol string, startTime, endTime int64, limit int) []models.Candle {
	return uc.fetcher.Fetch(ctx, symbol, startTime, endTime, limit)
}

func (uc *Usecase) GetLatestPrice(ctx context.Context) (string, error) {
	price, ok := uc.snapshot.LatestPrice()
	if !ok {
		return "", constant.ErrNoPriceYet
	}
	return price, nil
}

func (uc *Usecase) GetLatestTrade(ctx context.Context) (models.Trade, error) {
	trade, ok := uc.snapshot.LatestTrade()
	if !ok {
		return models.Trade{}, constant.ErrNoTradeYet
	}
	return trade, nil
}
