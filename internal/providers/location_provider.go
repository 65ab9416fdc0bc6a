package providers

import (
	"time"

	"pad/internal/structures"
)

// NewLocationProvider resolves the configured timezone. An unknown
// name logs a warning and falls back to UTC rather than failing
// startup.
func NewLocationProvider(conf *structures.Config, logger Logger) *time.Location {
	if conf.Engine.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(conf.Engine.Timezone)
	if err != nil {
		logger.Warnf(TypeApp, "Unknown timezone %q, using UTC: %s", conf.Engine.Timezone, err)
		return time.UTC
	}
	return loc
}
