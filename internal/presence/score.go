package presence

import (
	"math"

	"pad/internal/structures"
)

// Scorer combines connected minutes and follower reach into one
// ranking scalar. Linear in both arguments, so increasing either never
// decreases the score.
type Scorer struct {
	MinutesWeight   float64
	FollowersWeight float64
}

func NewScorer(conf *structures.Config) Scorer {
	return Scorer{
		MinutesWeight:   conf.Engine.MinutesWeight,
		FollowersWeight: conf.Engine.FollowersWeight,
	}
}

// Score is deterministic and always finite; non-finite inputs are
// treated as 0.
func (s Scorer) Score(totalMinutes, averageFollowers float64) float64 {
	if math.IsNaN(totalMinutes) || math.IsInf(totalMinutes, 0) {
		totalMinutes = 0
	}
	if math.IsNaN(averageFollowers) || math.IsInf(averageFollowers, 0) {
		averageFollowers = 0
	}
	return totalMinutes*s.MinutesWeight + averageFollowers*s.FollowersWeight
}
