package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pad/internal/models"
	"pad/internal/structures"
)

func engineConfig() *structures.Config {
	return &structures.Config{
		Engine: structures.EngineConfig{
			MaxGap:            45 * time.Minute,
			GapCap:            15 * time.Minute,
			SinglePingMinutes: 0,
			MinutesWeight:     1.0,
			FollowersWeight:   0.01,
			BlockTolerance:    time.Minute,
			ContinuityWindow:  time.Hour,
			HighlightWindow:   3 * time.Minute,
			SpikeThreshold:    1000,
			LongGap:           24 * time.Hour,
			LongGapMinMinutes: 60,
		},
	}
}

func pingAt(username string, ts time.Time) models.PresencePing {
	return models.PresencePing{Username: username, Timestamp: ts}
}

func pingsAt(username string, base time.Time, offsets ...time.Duration) []models.PresencePing {
	out := make([]models.PresencePing, 0, len(offsets))
	for _, o := range offsets {
		out = append(out, pingAt(username, base.Add(o)))
	}
	return out
}

func TestSegment_Empty(t *testing.T) {
	s := NewSegmenter(engineConfig())
	sessions, total := s.Segment(nil)
	assert.Nil(t, sessions)
	assert.Zero(t, total)
}

func TestSegment_SinglePing(t *testing.T) {
	s := NewSegmenter(engineConfig())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sessions, total := s.Segment(pingsAt("a", base, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, base, sessions[0].Start)
	assert.Equal(t, base, sessions[0].End)
	assert.Zero(t, sessions[0].DurationMinutes)
	assert.Zero(t, total)
}

func TestSegment_SinglePingFloor(t *testing.T) {
	conf := engineConfig()
	conf.Engine.SinglePingMinutes = 5
	s := NewSegmenter(conf)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sessions, total := s.Segment(pingsAt("a", base, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, 5.0, sessions[0].DurationMinutes)
	assert.Equal(t, 5.0, total)
}

func TestSegment_GapBeyondMaxSplitsSessions(t *testing.T) {
	s := NewSegmenter(engineConfig())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 10 minutes of continuity, then a 60 minute silence.
	sessions, total := s.Segment(pingsAt("a", base, 0, 10*time.Minute, 70*time.Minute))
	require.Len(t, sessions, 2)
	assert.Equal(t, 10.0, sessions[0].DurationMinutes)
	assert.Equal(t, base, sessions[0].Start)
	assert.Equal(t, base.Add(10*time.Minute), sessions[0].End)
	assert.Zero(t, sessions[1].DurationMinutes)
	assert.Equal(t, 10.0, total)
}

func TestSegment_GapWithinMaxIsCapped(t *testing.T) {
	s := NewSegmenter(engineConfig())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 40 minute gap stays inside MaxGap but only GapCap counts.
	sessions, total := s.Segment(pingsAt("a", base, 0, 40*time.Minute))
	require.Len(t, sessions, 1)
	assert.Equal(t, 15.0, sessions[0].DurationMinutes)
	assert.Equal(t, 15.0, total)
	assert.Equal(t, base.Add(40*time.Minute), sessions[0].End)
}

func TestSegment_SmallGapsCountInFull(t *testing.T) {
	s := NewSegmenter(engineConfig())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, total := s.Segment(pingsAt("a", base, 0, 5*time.Minute, 12*time.Minute))
	assert.Equal(t, 12.0, total)
}

func TestSegment_TotalEqualsSumOfDurations(t *testing.T) {
	s := NewSegmenter(engineConfig())
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	pings := pingsAt("a", base,
		0, 5*time.Minute, 40*time.Minute, 2*time.Hour, 2*time.Hour+10*time.Minute,
		6*time.Hour, 30*time.Hour)
	sessions, total := s.Segment(pings)
	require.Len(t, sessions, 4)

	sum := 0.0
	for _, sess := range sessions {
		assert.False(t, sess.End.Before(sess.Start))
		sum += sess.DurationMinutes
	}
	assert.InDelta(t, sum, total, 1e-9)
}

func TestSegment_SessionBoundsMatchPings(t *testing.T) {
	s := NewSegmenter(engineConfig())
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	sessions, _ := s.Segment(pingsAt("a", base, 0, 10*time.Minute, 20*time.Minute))
	require.Len(t, sessions, 1)
	assert.Equal(t, base, sessions[0].Start)
	assert.Equal(t, base.Add(20*time.Minute), sessions[0].End)
}
