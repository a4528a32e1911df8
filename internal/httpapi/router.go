package httpapi

import "net/http"

// NewMux returns the raw mux, without middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{Jobs: d.Jobs}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))
	mux.HandleFunc("/ready", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Ready,
	}))

	// Jobs
	jh := JobsHandler{Jobs: d.Jobs, AdminToken: func() string { return d.config().Admin.Token }}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  jh.List,
		http.MethodPost: jh.Import,
	}))
	mux.HandleFunc("/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.ByPath, // /jobs/{id} and /jobs/{id}/related
	}))

	// Filters and option tables
	fh := FiltersHandler{Engine: d.Jobs.Engine()}
	mux.HandleFunc("/filters/resolve", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.Resolve,
	}))
	mux.HandleFunc("/options/titles", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.Titles,
	}))
	mux.HandleFunc("/options/locations", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.Locations,
	}))
	mux.HandleFunc("/options/experience", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.Experience,
	}))

	// Config
	ch := ConfigHandler{Cfg: d.config, UserCfgPath: d.UserCfgPath}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// SSE events
	if d.Hub != nil {
		eh := EventsHandler{Hub: d.Hub}
		mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
			http.MethodGet: eh.ServeSSE,
		}))
	}

	return mux
}

// NewHandler wraps the mux in the standard middleware chain.
func NewHandler(d Deps) http.Handler {
	return WithMiddleware(NewMux(d), d.Limiter)
}

// WithMiddleware applies the standard chain to h; limiter may be nil.
func WithMiddleware(h http.Handler, limiter *ClientLimiter) http.Handler {
	mw := []Middleware{RequestID, Recover, AccessLog, Cors}
	if limiter != nil {
		mw = append(mw, limiter.Middleware)
	}
	return Chain(h, mw...)
}
