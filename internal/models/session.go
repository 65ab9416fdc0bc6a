package models

import "time"

// Session is a maximal run of pings separated by gaps no larger than
// the configured threshold. Start <= End always holds.
type Session struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes float64   `json:"durationMinutes"`
}
