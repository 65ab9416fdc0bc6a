package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pad/internal/models"
)

func TestParseScope_DefaultsToAll(t *testing.T) {
	scope, err := ParseScope("", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, scope.Kind)
}

func TestParseScope_Day(t *testing.T) {
	scope, err := ParseScope("day", "2026-03-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ScopeDay, scope.Kind)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), scope.Date)
}

func TestParseScope_Week(t *testing.T) {
	scope, err := ParseScope("week", "2026-W09", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2026, scope.ISOYear)
	assert.Equal(t, 9, scope.ISOWeek)
}

func TestParseScope_Month(t *testing.T) {
	scope, err := ParseScope("month", "2026-03", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, ScopeMonth, scope.Kind)
}

func TestParseScope_Invalid(t *testing.T) {
	_, err := ParseScope("day", "March 1st", time.UTC)
	assert.Error(t, err)

	_, err = ParseScope("week", "2026-09", time.UTC)
	assert.Error(t, err)

	_, err = ParseScope("week", "2026-W54", time.UTC)
	assert.Error(t, err)

	_, err = ParseScope("quarter", "2026-Q1", time.UTC)
	assert.Error(t, err)
}

func TestISOWeekOf_MatchesStdlib(t *testing.T) {
	dates := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		wantYear, wantWeek := d.ISOWeek()
		year, week := ISOWeekOf(d)
		assert.Equal(t, wantYear, year, d.Format("2006-01-02"))
		assert.Equal(t, wantWeek, week, d.Format("2006-01-02"))
	}
}

func TestISOWeekOf_YearBoundary(t *testing.T) {
	// Dec 29 2025 is a Monday whose Thursday falls in 2026.
	year, week := ISOWeekOf(time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2026, year)
	assert.Equal(t, 1, week)

	// Jan 1 2027 is a Friday; its week belongs to 2026.
	year, week = ISOWeekOf(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2026, year)
	assert.Equal(t, 53, week)
}

func TestContains_Day(t *testing.T) {
	scope, err := ParseScope("day", "2026-03-01", time.UTC)
	require.NoError(t, err)

	assert.True(t, scope.Contains(time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)))
	assert.False(t, scope.Contains(time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC)))
}

func TestContains_DayRespectsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	scope, err := ParseScope("day", "2026-03-01", loc)
	require.NoError(t, err)

	// 23:30 UTC on Feb 28 is already March 1 in Berlin.
	assert.True(t, scope.Contains(time.Date(2026, 2, 28, 23, 30, 0, 0, time.UTC)))
}

func TestContains_Week(t *testing.T) {
	scope, err := ParseScope("week", "2026-W09", time.UTC)
	require.NoError(t, err)

	// Week 9 of 2026 runs Feb 23 through Mar 1.
	assert.True(t, scope.Contains(time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)))
	assert.True(t, scope.Contains(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.False(t, scope.Contains(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestContains_Month(t *testing.T) {
	scope, err := ParseScope("month", "2026-03", time.UTC)
	require.NoError(t, err)

	assert.True(t, scope.Contains(time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, scope.Contains(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIsHistoricalDay(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	today, err := ParseScope("day", "2026-03-02", time.UTC)
	require.NoError(t, err)
	assert.False(t, today.IsHistoricalDay(now))

	yesterday, err := ParseScope("day", "2026-03-01", time.UTC)
	require.NoError(t, err)
	assert.True(t, yesterday.IsHistoricalDay(now))

	all, err := ParseScope("all", "", time.UTC)
	require.NoError(t, err)
	assert.False(t, all.IsHistoricalDay(now))
}

func TestFilterPings(t *testing.T) {
	scope, err := ParseScope("day", "2026-03-01", time.UTC)
	require.NoError(t, err)

	pings := []models.PresencePing{
		pingAt("a", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
		pingAt("b", time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)),
		pingAt("c", time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)),
	}
	filtered := FilterPings(pings, scope)
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Username)
	assert.Equal(t, "c", filtered[1].Username)
}

func TestFilterPings_AllScopeIsPassthrough(t *testing.T) {
	pings := []models.PresencePing{pingAt("a", time.Now())}
	assert.Equal(t, pings, FilterPings(pings, Scope{Kind: ScopeAll}))
}
