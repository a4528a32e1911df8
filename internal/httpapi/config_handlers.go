package httpapi

import (
	"net/http"
	"path/filepath"

	"remotejobs-engine/internal/config"
)

type ConfigHandler struct {
	Cfg         func() config.Config
	UserCfgPath string
}

// Get returns the running config with secrets masked.
func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Cfg().Redacted())
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	writeJSON(w, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(h.Cfg())
	if vr.Errors == nil {
		vr.Errors = []string{}
	}
	if vr.Warnings == nil {
		vr.Warnings = []string{}
	}
	writeJSON(w, vr)
}
