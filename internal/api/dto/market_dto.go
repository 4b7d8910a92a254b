package dto

import "time"

// Res is the envelope for every API response.
type Res struct {
	Success bool `json:"success"`
	Error   any  `json:"error"`
	Data    any  `json:"data"`
}

// ErrorType carries one field-level validation failure.
type ErrorType struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// GetHistoricalReq is the query shape of GET /historical. Times are epoch
// milliseconds.
type GetHistoricalReq struct {
	Symbol    string `form:"symbol" binding:"required"`
	StartTime int64  `form:"startTime" binding:"required"`
	EndTime   int64  `form:"endTime" binding:"required"`
	Limit     int    `form:"limit" binding:"required"`
}

// GetPriceRes carries the latest ingested price.
type GetPriceRes struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetTradeRes carries the latest ingested trade.
type GetTradeRes struct {
	Symbol    string    `json:"symbol"`
	Price     string    `json:"price"`
	Quantity  string    `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
