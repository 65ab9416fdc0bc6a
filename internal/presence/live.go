package presence

import (
	"sort"
	"time"

	"pad/internal/models"
	"pad/internal/structures"
)

// LiveStatus is the block classification of the ping stream: who is in
// the latest polling block, who just dropped out of it, and, for a
// historical day scope, who was in that day's last block. Online and
// Ghosts are always disjoint.
type LiveStatus struct {
	Online      []string  `json:"online"`
	Ghosts      []string  `json:"ghosts"`
	LastSeen    []string  `json:"lastSeen,omitempty"`
	Historical  bool      `json:"historical"`
	LatestBlock time.Time `json:"latestBlock"`
}

// LiveClassifier finds the latest and previous polling blocks.
// BlockTolerance absorbs near-simultaneous polling of different users
// in one cycle; ContinuityWindow guards ghost detection against
// multi-hour feed outages.
type LiveClassifier struct {
	BlockTolerance   time.Duration
	ContinuityWindow time.Duration

	now func() time.Time
}

func NewLiveClassifier(conf *structures.Config) *LiveClassifier {
	return &LiveClassifier{
		BlockTolerance:   conf.Engine.BlockTolerance,
		ContinuityWindow: conf.Engine.ContinuityWindow,
		now:              time.Now,
	}
}

// Classify evaluates the full (unfiltered) ping stream. For a
// historical day scope it suppresses the online set and reports that
// day's last block as a last-seen list instead.
func (c *LiveClassifier) Classify(pings []models.PresencePing, scope Scope) LiveStatus {
	if scope.IsHistoricalDay(c.now()) {
		return c.classifyHistorical(FilterPings(pings, scope))
	}
	return c.classifyCurrent(pings)
}

func (c *LiveClassifier) classifyCurrent(pings []models.PresencePing) LiveStatus {
	if len(pings) == 0 {
		return LiveStatus{Online: []string{}, Ghosts: []string{}}
	}

	latest := maxTimestamp(pings)
	threshold := latest.Add(-c.BlockTolerance)

	online := make(map[string]struct{})
	for _, p := range pings {
		if !p.Timestamp.Before(threshold) {
			online[p.Username] = struct{}{}
		}
	}

	status := LiveStatus{
		Online:      sortedSet(online),
		Ghosts:      []string{},
		LatestBlock: latest,
	}

	// Greatest timestamp strictly below the latest block.
	var previous time.Time
	for _, p := range pings {
		if p.Timestamp.Before(threshold) && p.Timestamp.After(previous) {
			previous = p.Timestamp
		}
	}
	if previous.IsZero() {
		return status
	}
	if latest.Sub(previous) >= c.ContinuityWindow {
		// Feed was down between blocks; "just left" is meaningless.
		return status
	}

	prevFrom := previous.Add(-c.BlockTolerance)
	ghosts := make(map[string]struct{})
	for _, p := range pings {
		if p.Timestamp.Before(threshold) && !p.Timestamp.Before(prevFrom) {
			if _, isOnline := online[p.Username]; !isOnline {
				ghosts[p.Username] = struct{}{}
			}
		}
	}
	status.Ghosts = sortedSet(ghosts)
	return status
}

func (c *LiveClassifier) classifyHistorical(dayPings []models.PresencePing) LiveStatus {
	status := LiveStatus{Online: []string{}, Ghosts: []string{}, Historical: true}
	if len(dayPings) == 0 {
		status.LastSeen = []string{}
		return status
	}

	latest := maxTimestamp(dayPings)
	threshold := latest.Add(-c.BlockTolerance)

	last := make(map[string]struct{})
	for _, p := range dayPings {
		if !p.Timestamp.Before(threshold) {
			last[p.Username] = struct{}{}
		}
	}
	status.LastSeen = sortedSet(last)
	status.LatestBlock = latest
	return status
}

func maxTimestamp(pings []models.PresencePing) time.Time {
	var latest time.Time
	for _, p := range pings {
		if p.Timestamp.After(latest) {
			latest = p.Timestamp
		}
	}
	return latest
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
