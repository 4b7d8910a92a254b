package models

// Candle is one OHLC point from the Binance kline endpoint.
// Time is the kline open time in seconds.
type Candle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// ChartPoint is an aggregated chart update: the current bucket mean with
// the trailing baseline, both rounded to two decimals.
type ChartPoint struct {
	Time     int64   `json:"time"`
	Value    float64 `json:"value"`
	Baseline float64 `json:"baseline"`
}

// RelayPoint is a pass-through sample from the raw trade stream.
type RelayPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}
