package httpapi

import (
	"context"
	"net/http"
	"time"

	"remotejobs-engine/internal/listing"
)

type HealthHandler struct {
	Jobs *listing.Service
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether the job store answers.
func (h HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.Jobs.Ready(ctx); err != nil {
		WriteError(w, r, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
