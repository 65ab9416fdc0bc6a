package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pad/internal/models"
)

func newTestAggregator() *Aggregator {
	conf := engineConfig()
	return NewAggregator(NewSegmenter(conf), NewScorer(conf))
}

func TestAggregate_Empty(t *testing.T) {
	a := newTestAggregator()
	assert.Empty(t, a.Aggregate(nil))
}

func TestAggregate_GroupsByUsername(t *testing.T) {
	a := newTestAggregator()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	pings := []models.PresencePing{
		pingAt("alice", base),
		pingAt("bob", base.Add(time.Minute)),
		pingAt("alice", base.Add(10*time.Minute)),
	}
	aggs := a.Aggregate(pings)
	require.Len(t, aggs, 2)
	assert.Equal(t, "alice", aggs[0].Username)
	assert.Equal(t, "bob", aggs[1].Username)
	assert.Len(t, aggs[0].Pings, 2)
	assert.Len(t, aggs[1].Pings, 1)
}

func TestAggregate_SortsPingsBeforeSegmenting(t *testing.T) {
	a := newTestAggregator()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Out of order on purpose.
	pings := []models.PresencePing{
		pingAt("alice", base.Add(10*time.Minute)),
		pingAt("alice", base),
	}
	aggs := a.Aggregate(pings)
	require.Len(t, aggs, 1)
	assert.Equal(t, 10.0, aggs[0].TotalMinutes)
	assert.True(t, aggs[0].FirstSeen.Equal(base))
	assert.True(t, aggs[0].LastSeen.Equal(base.Add(10*time.Minute)))
}

func TestAggregate_FollowerStats(t *testing.T) {
	a := newTestAggregator()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	pings := []models.PresencePing{
		{Username: "alice", FollowerCount: 100, Timestamp: base},
		{Username: "alice", FollowerCount: 200, Timestamp: base.Add(time.Minute)},
		{Username: "alice", FollowerCount: 150, Timestamp: base.Add(2 * time.Minute)},
	}
	aggs := a.Aggregate(pings)
	require.Len(t, aggs, 1)
	assert.InDelta(t, 150.0, aggs[0].AverageFollowers, 1e-9)
	assert.Equal(t, int64(200), aggs[0].MaxFollowers)
}

func TestAggregate_ScoreUsesTotalAndAverage(t *testing.T) {
	a := newTestAggregator()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	pings := []models.PresencePing{
		{Username: "alice", FollowerCount: 1000, Timestamp: base},
		{Username: "alice", FollowerCount: 1000, Timestamp: base.Add(30 * time.Minute)},
	}
	aggs := a.Aggregate(pings)
	require.Len(t, aggs, 1)
	// 30 minutes connected at weight 1.0 plus 1000 average followers at 0.01.
	assert.InDelta(t, 30.0+10.0, aggs[0].Score, 1e-9)
}

func TestAggregate_PrefersLatestNonEmptyLink(t *testing.T) {
	a := newTestAggregator()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	pings := []models.PresencePing{
		{Username: "alice", ProfileLink: "https://example.com/@alice/live", Timestamp: base},
		{Username: "alice", ProfileLink: "", Timestamp: base.Add(time.Minute)},
	}
	aggs := a.Aggregate(pings)
	require.Len(t, aggs, 1)
	assert.Equal(t, "https://example.com/@alice/live", aggs[0].ProfileLink)
}

func TestAggregate_DisplayNameFollowsLatestPing(t *testing.T) {
	a := newTestAggregator()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	pings := []models.PresencePing{
		{Username: "alice", DisplayName: "Old Name", Timestamp: base},
		{Username: "alice", DisplayName: "New Name", Timestamp: base.Add(time.Minute)},
	}
	aggs := a.Aggregate(pings)
	require.Len(t, aggs, 1)
	assert.Equal(t, "New Name", aggs[0].DisplayName)
}
