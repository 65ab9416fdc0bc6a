package presence

import (
	"time"

	"pad/internal/models"
	"pad/internal/structures"
)

// Segmenter converts one user's time-ordered pings into session
// intervals. A gap above MaxGap closes the session; a gap within it
// contributes at most GapCap to the duration, so sparse polling never
// overstates presence.
type Segmenter struct {
	MaxGap            time.Duration
	GapCap            time.Duration
	SinglePingMinutes float64
}

func NewSegmenter(conf *structures.Config) *Segmenter {
	return &Segmenter{
		MaxGap:            conf.Engine.MaxGap,
		GapCap:            conf.Engine.GapCap,
		SinglePingMinutes: conf.Engine.SinglePingMinutes,
	}
}

// Segment expects pings sorted ascending by timestamp and returns the
// ordered session list together with the total connected minutes.
// The total always equals the sum of the session durations.
func (s *Segmenter) Segment(pings []models.PresencePing) ([]models.Session, float64) {
	if len(pings) == 0 {
		return nil, 0
	}

	sessions := make([]models.Session, 0, 1)
	total := 0.0

	cur := models.Session{Start: pings[0].Timestamp, End: pings[0].Timestamp}
	curPings := 1

	flush := func() {
		if curPings == 1 {
			cur.DurationMinutes = s.SinglePingMinutes
		}
		total += cur.DurationMinutes
		sessions = append(sessions, cur)
	}

	for i := 1; i < len(pings); i++ {
		gap := pings[i].Timestamp.Sub(pings[i-1].Timestamp)
		if gap <= s.MaxGap {
			capped := gap
			if capped > s.GapCap {
				capped = s.GapCap
			}
			cur.End = pings[i].Timestamp
			cur.DurationMinutes += capped.Minutes()
			curPings++
			continue
		}
		flush()
		cur = models.Session{Start: pings[i].Timestamp, End: pings[i].Timestamp}
		curPings = 1
	}
	flush()

	return sessions, total
}
