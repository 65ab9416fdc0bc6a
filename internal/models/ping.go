package models

import "time"

// RawRow is one row of the upstream feed, 4 columns:
// display name, follower count, profile link, timestamp.
type RawRow []string

// Col returns the i-th column or "" when the row is short.
func (r RawRow) Col(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// PresencePing is one timestamped observation of a user's presence.
// Immutable once ingested.
type PresencePing struct {
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName"`
	FollowerCount int64     `json:"followerCount"`
	ProfileLink   string    `json:"profileLink"`
	Timestamp     time.Time `json:"timestamp"`
}
