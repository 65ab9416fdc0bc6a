package presence

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"pad/internal/models"
)

// Numeric timestamps below this are Unix seconds, at or above it Unix
// milliseconds. The boundary is far enough in the future (year 2286 in
// seconds) and far enough in the past (1970 in millis) to be safe.
const unixMillisBoundary = 10_000_000_000

// Normalizer turns raw feed rows into typed pings. Rows that cannot
// produce a valid ping are dropped at this boundary, never propagated.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NormalizeRows converts a batch of rows, returning the pings and the
// number of rows rejected.
func (n *Normalizer) NormalizeRows(rows []models.RawRow) ([]models.PresencePing, int) {
	pings := make([]models.PresencePing, 0, len(rows))
	rejected := 0
	for _, row := range rows {
		ping, ok := n.normalizeRow(row)
		if !ok {
			rejected++
			continue
		}
		pings = append(pings, ping)
	}
	return pings, rejected
}

func (n *Normalizer) normalizeRow(row models.RawRow) (models.PresencePing, bool) {
	display := strings.TrimSpace(row.Col(0))
	link := strings.TrimSpace(row.Col(2))

	username := ExtractUsername(link, display)
	if username == "" {
		return models.PresencePing{}, false
	}

	ts, ok := n.parseTimestamp(strings.TrimSpace(row.Col(3)))
	if !ok {
		return models.PresencePing{}, false
	}

	return models.PresencePing{
		Username:      username,
		DisplayName:   display,
		FollowerCount: ParseFollowers(row.Col(1)),
		ProfileLink:   link,
		Timestamp:     ts,
	}, true
}

// ExtractUsername pulls the username out of a profile link of the form
// ".../@username/live". A link without "@" (or with nothing behind it)
// falls back to the display name.
func ExtractUsername(link, displayName string) string {
	if i := strings.Index(link, "@"); i >= 0 {
		after := link[i+1:]
		if j := strings.Index(after, "/"); j >= 0 {
			after = after[:j]
		}
		if after != "" {
			return after
		}
	}
	return displayName
}

// ParseFollowers accepts plain numerics or K/M/B-suffixed magnitude
// strings, case-insensitively. Anything unparsable normalizes to 0.
func ParseFollowers(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	mult := float64(1)
	switch s[len(s)-1] {
	case 'k', 'K':
		mult = 1_000
		s = s[:len(s)-1]
	case 'm', 'M':
		mult = 1_000_000
		s = s[:len(s)-1]
	case 'b', 'B':
		mult = 1_000_000_000
		s = s[:len(s)-1]
	}

	val, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil || val < 0 {
		return 0
	}
	return int64(val * mult)
}

func (n *Normalizer) parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return n.now(), true
	}

	if num, err := cast.ToFloat64E(raw); err == nil {
		var millis int64
		if num < unixMillisBoundary {
			millis = int64(num * 1000)
		} else {
			millis = int64(num)
		}
		if millis <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(millis), true
	}

	ts, err := cast.StringToDate(raw)
	if err != nil || ts.IsZero() {
		return time.Time{}, false
	}
	return ts, true
}
