package models

import "time"

// StreamTradeMessage is the raw payload shape shared by the Binance
// aggTrade and trade streams. Prices and quantities arrive as strings.
type StreamTradeMessage struct {
	Price     string `json:"p"` // Last price
	Quantity  string `json:"q"` // Trade quantity
	TradeTime int64  `json:"T"` // Unix timestamp in milliseconds
}

// Trade is the canonical, validated trade record passed downstream.
type Trade struct {
	Symbol    string    `json:"symbol"`
	Price     string    `json:"price"`
	Quantity  string    `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
