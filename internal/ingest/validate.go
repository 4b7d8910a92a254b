package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"market-data-backend/internal/models"
)

var (
	errMissingPrice     = errors.New("missing price")
	errMissingQuantity  = errors.New("missing quantity")
	errMissingTimestamp = errors.New("missing timestamp")
)

// validateTrade turns a raw stream message into a canonical Trade, or an
// error when a required field is missing or non-numeric. Untyped or
// partial values never make it downstream.
func validateTrade(symbol string, msg models.StreamTradeMessage) (models.Trade, error) {
	if msg.Price == "" {
		return models.Trade{}, errMissingPrice
	}
	if msg.Quantity == "" {
		return models.Trade{}, errMissingQuantity
	}
	if msg.TradeTime == 0 {
		return models.Trade{}, errMissingTimestamp
	}

	if _, err := strconv.ParseFloat(msg.Price, 64); err != nil {
		return models.Trade{}, fmt.Errorf("non-numeric price %q", msg.Price)
	}
	if _, err := strconv.ParseFloat(msg.Quantity, 64); err != nil {
		return models.Trade{}, fmt.Errorf("non-numeric quantity %q", msg.Quantity)
	}

	if msg.TradeTime < 0 {
		return models.Trade{}, fmt.Errorf("invalid timestamp %d", msg.TradeTime)
	}

	return models.Trade{
		Symbol:    symbol,
		Price:     msg.Price,
		Quantity:  msg.Quantity,
		Timestamp: time.UnixMilli(msg.TradeTime),
	}, nil
}
