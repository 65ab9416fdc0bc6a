package di

import (
	"pad/internal/providers"
	"pad/internal/services"
)

// ProvideEngineStats narrows the presence service to the read-only
// view the metrics gauges sample from.
func ProvideEngineStats(svc services.PresenceServiceInterface) providers.EngineStats {
	return svc
}
