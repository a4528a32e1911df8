package httpapi

import (
	"sync/atomic"

	"remotejobs-engine/internal/config"
	"remotejobs-engine/internal/events"
	"remotejobs-engine/internal/listing"
)

type Deps struct {
	Jobs *listing.Service

	Hub *events.Hub

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	UserCfgPath string

	// Limiter is nil when rate limiting is off.
	Limiter *ClientLimiter
}

func (d Deps) config() config.Config {
	if d.CfgVal == nil {
		return config.Default()
	}
	cfg, ok := d.CfgVal.Load().(config.Config)
	if !ok {
		return config.Default()
	}
	return cfg
}
