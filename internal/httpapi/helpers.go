package httpapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"remotejobs-engine/internal/match"
)

func writeJSON(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	allowed := make([]string, 0, len(m))
	for method := range m {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		w.Header().Set("Allow", allow)
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

// queryInt reads an optional non-negative integer parameter.
func queryInt(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, &match.InputError{Field: name, Reason: "must be a non-negative integer"}
	}
	return n, nil
}

func rawFilterFrom(r *http.Request) match.RawFilter {
	q := r.URL.Query()
	return match.RawFilter{
		Title:          q.Get("title"),
		Location:       q.Get("location"),
		Experience:     q.Get("experience"),
		Keyword:        q.Get("keyword"),
		Category:       q.Get("category"),
		EmploymentType: q.Get("employment_type"),
	}
}
