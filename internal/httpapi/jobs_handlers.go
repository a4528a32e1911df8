package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"remotejobs-engine/internal/ingest"
	"remotejobs-engine/internal/listing"
)

const (
	// HeaderUserVerified is set by the upstream auth proxy for signed-in users.
	HeaderUserVerified = "X-User-Verified"
	HeaderAdminToken   = "X-Admin-Token"

	maxImportBytes = 10 << 20
)

type JobsHandler struct {
	Jobs       *listing.Service
	AdminToken func() string
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeErr(w, r, err)
		return
	}

	res, err := h.Jobs.Search(r.Context(), rawFilterFrom(r), listing.Page{
		Limit:  limit,
		Offset: offset,
		Sort:   r.URL.Query().Get("sort"),
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, res)
}

// ByPath serves /jobs/{id} and /jobs/{id}/related.
func (h JobsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		job, err := h.Jobs.Job(r.Context(), parts[0])
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, job)
	case len(parts) == 2 && parts[0] != "" && parts[1] == "related":
		res, err := h.Jobs.Related(r.Context(), parts[0], verifiedUser(r))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, res)
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "no such route")
	}
}

func verifiedUser(r *http.Request) bool {
	v := strings.TrimSpace(r.Header.Get(HeaderUserVerified))
	return strings.EqualFold(v, "true") || v == "1"
}

// Import accepts a JSON array of jobs (or {"jobs": [...]}) from an admin.
func (h JobsHandler) Import(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	jobs, err := ingest.Decode(http.MaxBytesReader(w, r.Body, maxImportBytes), ingest.FormatJSON)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			WriteError(w, r, http.StatusRequestEntityTooLarge, "too_large", "body exceeds import limit")
			return
		}
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	res, err := h.Jobs.Import(r.Context(), RequestIDFrom(r.Context()), jobs)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h JobsHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	want := ""
	if h.AdminToken != nil {
		want = h.AdminToken()
	}
	if want == "" {
		WriteError(w, r, http.StatusForbidden, "admin_disabled", "admin token is not configured")
		return false
	}
	got := r.Header.Get(HeaderAdminToken)
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		WriteError(w, r, http.StatusUnauthorized, "unauthorized", "invalid admin token")
		return false
	}
	return true
}
