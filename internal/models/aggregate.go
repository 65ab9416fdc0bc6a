package models

import (
	"sort"
	"strings"
	"time"
)

// UserAggregate is the per-user result of one pipeline run. Derived
// entirely from Pings; recomputed per refresh, never mutated in place.
type UserAggregate struct {
	Username         string         `json:"username"`
	DisplayName      string         `json:"displayName"`
	Pings            []PresencePing `json:"pings"`
	Sessions         []Session      `json:"sessions"`
	TotalMinutes     float64        `json:"totalMinutes"`
	SessionCount     int            `json:"sessionCount"`
	AverageFollowers float64        `json:"averageFollowers"`
	MaxFollowers     int64          `json:"maxFollowers"`
	Score            float64        `json:"score"`
	FirstSeen        time.Time      `json:"firstSeen"`
	LastSeen         time.Time      `json:"lastSeen"`
	ProfileLink      string         `json:"profileLink"`
}

const (
	SortByScore     = "score"
	SortByMinutes   = "minutes"
	SortBySessions  = "sessions"
	SortByFollowers = "followers"
	SortByUsername  = "username"
)

// SortAggregates orders the list in place by the given key. Unknown
// keys fall back to score. The sort is stable, so equal keys keep
// their insertion order.
func SortAggregates(list []UserAggregate, key string, desc bool) {
	var less func(i, j int) bool

	switch key {
	case SortByMinutes:
		less = func(i, j int) bool { return list[i].TotalMinutes < list[j].TotalMinutes }
	case SortBySessions:
		less = func(i, j int) bool { return list[i].SessionCount < list[j].SessionCount }
	case SortByFollowers:
		less = func(i, j int) bool { return list[i].AverageFollowers < list[j].AverageFollowers }
	case SortByUsername:
		less = func(i, j int) bool {
			return strings.ToLower(list[i].Username) < strings.ToLower(list[j].Username)
		}
	default:
		less = func(i, j int) bool { return list[i].Score < list[j].Score }
	}

	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(list, less)
}
