package presence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pad/internal/models"
)

const (
	ScopeAll   = "all"
	ScopeDay   = "day"
	ScopeWeek  = "week"
	ScopeMonth = "month"
)

// Scope selects which pings count as "current": everything, one local
// calendar day, one ISO-8601 week, or one local calendar month, all
// evaluated in Loc.
type Scope struct {
	Kind    string
	Date    time.Time // day and month scopes
	ISOYear int       // week scope
	ISOWeek int
	Loc     *time.Location
}

// ParseScope builds a scope from query-level strings. Date formats:
// day "2006-01-02", week "2006-W02", month "2006-01". An empty kind
// means all.
func ParseScope(kind, date string, loc *time.Location) (Scope, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch kind {
	case "", ScopeAll:
		return Scope{Kind: ScopeAll, Loc: loc}, nil
	case ScopeDay:
		d, err := time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return Scope{}, fmt.Errorf("invalid day %q: %w", date, err)
		}
		return Scope{Kind: ScopeDay, Date: d, Loc: loc}, nil
	case ScopeMonth:
		d, err := time.ParseInLocation("2006-01", date, loc)
		if err != nil {
			return Scope{}, fmt.Errorf("invalid month %q: %w", date, err)
		}
		return Scope{Kind: ScopeMonth, Date: d, Loc: loc}, nil
	case ScopeWeek:
		year, week, err := parseISOWeekString(date)
		if err != nil {
			return Scope{}, err
		}
		return Scope{Kind: ScopeWeek, ISOYear: year, ISOWeek: week, Loc: loc}, nil
	default:
		return Scope{}, fmt.Errorf("unknown scope %q", kind)
	}
}

func parseISOWeekString(s string) (int, int, error) {
	parts := strings.SplitN(s, "-W", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid week %q, want YYYY-Www", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid week year %q: %w", parts[0], err)
	}
	week, err := strconv.Atoi(parts[1])
	if err != nil || week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("invalid week number %q", parts[1])
	}
	return year, week, nil
}

// Contains reports whether t falls inside the scope.
func (s Scope) Contains(t time.Time) bool {
	lt := t.In(s.location())
	switch s.Kind {
	case ScopeDay:
		return lt.Year() == s.Date.Year() && lt.Month() == s.Date.Month() && lt.Day() == s.Date.Day()
	case ScopeWeek:
		year, week := ISOWeekOf(lt)
		return year == s.ISOYear && week == s.ISOWeek
	case ScopeMonth:
		return lt.Year() == s.Date.Year() && lt.Month() == s.Date.Month()
	default:
		return true
	}
}

// IsHistoricalDay reports whether the scope names a calendar day other
// than today. Online status is only meaningful for the present.
func (s Scope) IsHistoricalDay(now time.Time) bool {
	if s.Kind != ScopeDay {
		return false
	}
	ln := now.In(s.location())
	return ln.Year() != s.Date.Year() || ln.Month() != s.Date.Month() || ln.Day() != s.Date.Day()
}

func (s Scope) location() *time.Location {
	if s.Loc == nil {
		return time.UTC
	}
	return s.Loc
}

// FilterPings returns the pings within the scope, in input order.
func FilterPings(pings []models.PresencePing, scope Scope) []models.PresencePing {
	if scope.Kind == "" || scope.Kind == ScopeAll {
		return pings
	}
	out := make([]models.PresencePing, 0, len(pings))
	for _, p := range pings {
		if scope.Contains(p.Timestamp) {
			out = append(out, p)
		}
	}
	return out
}

// ISOWeekOf computes the ISO-8601 week of d: take the Thursday of d's
// Monday-start week, use its calendar year as the ISO year, and count
// Thursdays from that year's first Thursday.
func ISOWeekOf(d time.Time) (year, week int) {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	dayNr := (int(day.Weekday()) + 6) % 7 // Monday = 0
	thursday := day.AddDate(0, 0, -dayNr+3)

	year = thursday.Year()

	firstThursday := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if firstThursday.Weekday() != time.Thursday {
		offset := (4 - int(firstThursday.Weekday()) + 7) % 7
		firstThursday = firstThursday.AddDate(0, 0, offset)
	}

	week = 1 + int(thursday.Sub(firstThursday).Hours())/(24*7)
	return year, week
}
