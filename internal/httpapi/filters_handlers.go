package httpapi

import (
	"net/http"

	"remotejobs-engine/internal/catalog"
	"remotejobs-engine/internal/match"
)

type FiltersHandler struct {
	Engine *match.Engine
}

// Resolve previews the query a search would run.
func (h FiltersHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	q, err := h.Engine.ResolveFilter(rawFilterFrom(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	groups := q.Groups()
	if groups == nil {
		groups = [][]match.Condition{}
	}
	writeJSON(w, map[string]any{"filter": q, "groups": groups})
}

func (h FiltersHandler) Titles(w http.ResponseWriter, r *http.Request) {
	titles := []catalog.TitleOption{}
	if c := h.Engine.Catalog(); c != nil {
		titles = c.Titles
	}
	writeJSON(w, titles)
}

func (h FiltersHandler) Locations(w http.ResponseWriter, r *http.Request) {
	locs := []catalog.LocationOption{}
	if c := h.Engine.Catalog(); c != nil {
		locs = c.Locations
	}
	writeJSON(w, locs)
}

func (h FiltersHandler) Experience(w http.ResponseWriter, r *http.Request) {
	type option struct {
		Value     match.Bucket `json:"value"`
		Fragments []string     `json:"fragments"`
	}
	var out []option
	for _, b := range match.Buckets() {
		out = append(out, option{Value: b, Fragments: b.Fragments()})
	}
	writeJSON(w, out)
}
