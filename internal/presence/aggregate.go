package presence

import (
	"sort"

	"pad/internal/models"
)

// Aggregator groups a flat ping list by username and derives the
// per-user statistics. Pure over its input; empty input yields an
// empty collection.
type Aggregator struct {
	segmenter *Segmenter
	scorer    Scorer
}

func NewAggregator(segmenter *Segmenter, scorer Scorer) *Aggregator {
	return &Aggregator{segmenter: segmenter, scorer: scorer}
}

// Aggregate returns one UserAggregate per username, in first-seen
// input order so that downstream stable sorts break ties by insertion.
func (a *Aggregator) Aggregate(pings []models.PresencePing) []models.UserAggregate {
	groups := make(map[string][]models.PresencePing)
	order := make([]string, 0)

	for _, p := range pings {
		if _, ok := groups[p.Username]; !ok {
			order = append(order, p.Username)
		}
		groups[p.Username] = append(groups[p.Username], p)
	}

	out := make([]models.UserAggregate, 0, len(order))
	for _, username := range order {
		group := groups[username]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})

		sessions, total := a.segmenter.Segment(group)

		var sumFollowers, maxFollowers int64
		for _, p := range group {
			sumFollowers += p.FollowerCount
			if p.FollowerCount > maxFollowers {
				maxFollowers = p.FollowerCount
			}
		}
		avgFollowers := float64(sumFollowers) / float64(len(group))

		out = append(out, models.UserAggregate{
			Username:         username,
			DisplayName:      group[len(group)-1].DisplayName,
			Pings:            group,
			Sessions:         sessions,
			TotalMinutes:     total,
			SessionCount:     len(sessions),
			AverageFollowers: avgFollowers,
			MaxFollowers:     maxFollowers,
			Score:            a.scorer.Score(total, avgFollowers),
			FirstSeen:        group[0].Timestamp,
			LastSeen:         group[len(group)-1].Timestamp,
			ProfileLink:      latestLink(group),
		})
	}
	return out
}

// latestLink prefers the most recent non-empty profile link.
func latestLink(group []models.PresencePing) string {
	for i := len(group) - 1; i >= 0; i-- {
		if group[i].ProfileLink != "" {
			return group[i].ProfileLink
		}
	}
	return ""
}
