package main

import "time"

// QueryHistory is one submitted query: what was asked, where, what the
// resolver answered, and who asked. Immutable once created.
type QueryHistory struct {
	ID              int64     `json:"id"`
	CadastralNumber string    `json:"cadastralNumber"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	Result          bool      `json:"result"`
	CreatedAt       time.Time `json:"createdAt"`
	UserID          int64     `json:"-"`
}
