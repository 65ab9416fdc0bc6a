package presence

import (
	"fmt"
	"sort"
	"time"

	"pad/internal/models"
	"pad/internal/structures"
)

const (
	AnomalySpike   = "follower_spike"
	AnomalyLongGap = "long_gap_after_activity"
)

type SpikeInsight struct {
	Username string    `json:"username"`
	Delta    int64     `json:"delta"`
	At       time.Time `json:"at"`
}

type UserMinutes struct {
	Username string  `json:"username"`
	Minutes  float64 `json:"minutes"`
}

type UserDays struct {
	Username string `json:"username"`
	Days     int    `json:"days"`
}

type UserFollowers struct {
	Username  string  `json:"username"`
	Followers float64 `json:"followers"`
}

type BurstInsight struct {
	Username string `json:"username"`
	Date     string `json:"date"`
	Hour     int    `json:"hour"`
	Pings    int    `json:"pings"`
}

type Anomaly struct {
	Username string    `json:"username"`
	Kind     string    `json:"kind"`
	Detail   string    `json:"detail"`
	At       time.Time `json:"at"`
}

type Insights struct {
	FollowerSpike          *SpikeInsight   `json:"followerSpike,omitempty"`
	LongestPresence        *UserMinutes    `json:"longestPresence,omitempty"`
	MostConsistent         *UserDays       `json:"mostConsistent,omitempty"`
	ActivityBurst          *BurstInsight   `json:"activityBurst,omitempty"`
	GrowthOpportunities    []UserFollowers `json:"growthOpportunities"`
	ExposureInefficiencies []UserMinutes   `json:"exposureInefficiencies"`
	Anomalies              []Anomaly       `json:"anomalies"`
}

// InsightEngine derives anomaly and opportunity signals from the
// scoped aggregate collection. Pure and order-independent: results
// depend only on the aggregates' contents.
type InsightEngine struct {
	loc               *time.Location
	spikeThreshold    int64
	longGap           time.Duration
	longGapMinMinutes float64
}

func NewInsightEngine(conf *structures.Config, loc *time.Location) *InsightEngine {
	if loc == nil {
		loc = time.UTC
	}
	return &InsightEngine{
		loc:               loc,
		spikeThreshold:    conf.Engine.SpikeThreshold,
		longGap:           conf.Engine.LongGap,
		longGapMinMinutes: conf.Engine.LongGapMinMinutes,
	}
}

func (e *InsightEngine) Analyze(aggs []models.UserAggregate) Insights {
	out := Insights{
		GrowthOpportunities:    []UserFollowers{},
		ExposureInefficiencies: []UserMinutes{},
		Anomalies:              []Anomaly{},
	}
	if len(aggs) == 0 {
		return out
	}

	topTotal := 5
	var meanMinutes, meanFollowers float64
	for _, a := range aggs {
		meanMinutes += a.TotalMinutes
		meanFollowers += a.AverageFollowers
	}
	meanMinutes /= float64(len(aggs))
	meanFollowers /= float64(len(aggs))

	for _, a := range aggs {
		e.scanSpikes(a, &out)
		e.scanGaps(a, &out)
		e.scanConsistency(a, &out)
		e.scanBursts(a, &out)

		out.LongestPresence = maxMinutes(out.LongestPresence, a)

		if a.AverageFollowers > meanFollowers && a.TotalMinutes < meanMinutes {
			out.GrowthOpportunities = append(out.GrowthOpportunities, UserFollowers{
				Username:  a.Username,
				Followers: a.AverageFollowers,
			})
		}
		if a.TotalMinutes > meanMinutes && a.AverageFollowers < meanFollowers {
			out.ExposureInefficiencies = append(out.ExposureInefficiencies, UserMinutes{
				Username: a.Username,
				Minutes:  a.TotalMinutes,
			})
		}
	}

	sort.SliceStable(out.GrowthOpportunities, func(i, j int) bool {
		return out.GrowthOpportunities[i].Followers > out.GrowthOpportunities[j].Followers
	})
	if len(out.GrowthOpportunities) > topTotal {
		out.GrowthOpportunities = out.GrowthOpportunities[:topTotal]
	}

	sort.SliceStable(out.ExposureInefficiencies, func(i, j int) bool {
		return out.ExposureInefficiencies[i].Minutes > out.ExposureInefficiencies[j].Minutes
	})
	if len(out.ExposureInefficiencies) > topTotal {
		out.ExposureInefficiencies = out.ExposureInefficiencies[:topTotal]
	}

	return out
}

func maxMinutes(cur *UserMinutes, a models.UserAggregate) *UserMinutes {
	if cur == nil || a.TotalMinutes > cur.Minutes {
		return &UserMinutes{Username: a.Username, Minutes: a.TotalMinutes}
	}
	return cur
}

// scanSpikes finds the user's max positive follower delta between
// adjacent pings, keeps the global maximum, and flags the first delta
// above the anomaly threshold.
func (e *InsightEngine) scanSpikes(a models.UserAggregate, out *Insights) {
	var best int64
	var bestAt time.Time
	flagged := false

	for i := 1; i < len(a.Pings); i++ {
		delta := a.Pings[i].FollowerCount - a.Pings[i-1].FollowerCount
		if delta > best {
			best = delta
			bestAt = a.Pings[i].Timestamp
		}
		if !flagged && delta > e.spikeThreshold {
			flagged = true
			out.Anomalies = append(out.Anomalies, Anomaly{
				Username: a.Username,
				Kind:     AnomalySpike,
				Detail:   fmt.Sprintf("followers jumped by %d between adjacent pings", delta),
				At:       a.Pings[i].Timestamp,
			})
		}
	}

	if best > 0 && (out.FollowerSpike == nil || best > out.FollowerSpike.Delta) {
		out.FollowerSpike = &SpikeInsight{Username: a.Username, Delta: best, At: bestAt}
	}
}

// scanGaps flags the first gap above the long-gap threshold for users
// with meaningful accumulated presence.
func (e *InsightEngine) scanGaps(a models.UserAggregate, out *Insights) {
	if a.TotalMinutes <= e.longGapMinMinutes {
		return
	}
	for i := 1; i < len(a.Pings); i++ {
		gap := a.Pings[i].Timestamp.Sub(a.Pings[i-1].Timestamp)
		if gap > e.longGap {
			out.Anomalies = append(out.Anomalies, Anomaly{
				Username: a.Username,
				Kind:     AnomalyLongGap,
				Detail:   fmt.Sprintf("%.0fh silence after accumulated activity", gap.Hours()),
				At:       a.Pings[i].Timestamp,
			})
			return
		}
	}
}

func (e *InsightEngine) scanConsistency(a models.UserAggregate, out *Insights) {
	days := make(map[string]struct{})
	for _, p := range a.Pings {
		days[p.Timestamp.In(e.loc).Format("2006-01-02")] = struct{}{}
	}
	if out.MostConsistent == nil || len(days) > out.MostConsistent.Days {
		out.MostConsistent = &UserDays{Username: a.Username, Days: len(days)}
	}
}

// scanBursts buckets pings by (local date, local hour) and keeps the
// globally busiest bucket.
func (e *InsightEngine) scanBursts(a models.UserAggregate, out *Insights) {
	type bucket struct {
		date string
		hour int
	}
	counts := make(map[bucket]int)
	order := make([]bucket, 0)

	for _, p := range a.Pings {
		lt := p.Timestamp.In(e.loc)
		b := bucket{date: lt.Format("2006-01-02"), hour: lt.Hour()}
		if _, ok := counts[b]; !ok {
			order = append(order, b)
		}
		counts[b]++
	}

	for _, b := range order {
		n := counts[b]
		if out.ActivityBurst == nil || n > out.ActivityBurst.Pings {
			out.ActivityBurst = &BurstInsight{
				Username: a.Username,
				Date:     b.date,
				Hour:     b.hour,
				Pings:    n,
			}
		}
	}
}
