package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleAggregates() []UserAggregate {
	return []UserAggregate{
		{Username: "Bravo", Score: 10, TotalMinutes: 300, SessionCount: 1, AverageFollowers: 50},
		{Username: "alpha", Score: 30, TotalMinutes: 100, SessionCount: 3, AverageFollowers: 500},
		{Username: "Charlie", Score: 20, TotalMinutes: 200, SessionCount: 2, AverageFollowers: 5},
	}
}

func usernames(list []UserAggregate) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Username)
	}
	return out
}

func TestSortAggregates_ScoreDesc(t *testing.T) {
	list := sampleAggregates()
	SortAggregates(list, SortByScore, true)
	assert.Equal(t, []string{"alpha", "Charlie", "Bravo"}, usernames(list))
}

func TestSortAggregates_MinutesAsc(t *testing.T) {
	list := sampleAggregates()
	SortAggregates(list, SortByMinutes, false)
	assert.Equal(t, []string{"alpha", "Charlie", "Bravo"}, usernames(list))
}

func TestSortAggregates_Sessions(t *testing.T) {
	list := sampleAggregates()
	SortAggregates(list, SortBySessions, true)
	assert.Equal(t, []string{"alpha", "Charlie", "Bravo"}, usernames(list))
}

func TestSortAggregates_Followers(t *testing.T) {
	list := sampleAggregates()
	SortAggregates(list, SortByFollowers, true)
	assert.Equal(t, []string{"alpha", "Bravo", "Charlie"}, usernames(list))
}

func TestSortAggregates_UsernameCaseInsensitive(t *testing.T) {
	list := sampleAggregates()
	SortAggregates(list, SortByUsername, false)
	assert.Equal(t, []string{"alpha", "Bravo", "Charlie"}, usernames(list))
}

func TestSortAggregates_UnknownKeyFallsBackToScore(t *testing.T) {
	list := sampleAggregates()
	SortAggregates(list, "popularity", true)
	assert.Equal(t, []string{"alpha", "Charlie", "Bravo"}, usernames(list))
}

func TestSortAggregates_StableOnTies(t *testing.T) {
	list := []UserAggregate{
		{Username: "first", Score: 10},
		{Username: "second", Score: 10},
	}
	SortAggregates(list, SortByScore, true)
	assert.Equal(t, []string{"first", "second"}, usernames(list))
}
