package models

import "time"

// MDailyBar represents one trading day of a symbol as fetched from a source.
type MDailyBar struct {
	Symbol    string    `json:"symbol"`
	Timestamp int64     `json:"timestamp"` // Unix seconds, start of trading day
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	FetchedAt int64     `json:"fetched_at"`
	CreatedAt time.Time `json:"created_at"`
}
