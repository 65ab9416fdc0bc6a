package presence

import (
	"time"

	"github.com/dustin/go-humanize"

	"pad/internal/models"
)

const (
	StatusOnline  = "online"
	StatusGhost   = "ghost"
	StatusOffline = "offline"
)

// ReportEntry is one user's line in the full export: classification,
// last connection in both localized and ISO form, a human recency
// phrase, and the connection/session counts.
type ReportEntry struct {
	Username         string `json:"username"`
	Status           string `json:"status"`
	LastConnected    string `json:"lastConnected"`
	LastConnectedISO string `json:"lastConnectedIso"`
	Recency          string `json:"recency"`
	Connections      int    `json:"connections"`
	Sessions         int    `json:"sessions"`
}

// BuildReport cross-references the aggregates with the live
// classification. Entries keep the aggregate collection's order.
func BuildReport(aggs []models.UserAggregate, live LiveStatus, loc *time.Location) []ReportEntry {
	if loc == nil {
		loc = time.UTC
	}

	online := toSet(live.Online)
	ghosts := toSet(live.Ghosts)

	out := make([]ReportEntry, 0, len(aggs))
	for _, a := range aggs {
		status := StatusOffline
		if _, ok := online[a.Username]; ok {
			status = StatusOnline
		} else if _, ok := ghosts[a.Username]; ok {
			status = StatusGhost
		}

		out = append(out, ReportEntry{
			Username:         a.Username,
			Status:           status,
			LastConnected:    a.LastSeen.In(loc).Format("02 Jan 2006 15:04"),
			LastConnectedISO: a.LastSeen.UTC().Format(time.RFC3339),
			Recency:          humanize.Time(a.LastSeen),
			Connections:      len(a.Pings),
			Sessions:         a.SessionCount,
		})
	}
	return out
}

// Usernames is the bare identity list export.
func Usernames(aggs []models.UserAggregate) []string {
	out := make([]string, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, a.Username)
	}
	return out
}

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, v := range list {
		set[v] = struct{}{}
	}
	return set
}
