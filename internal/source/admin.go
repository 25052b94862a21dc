// internal/source/admin.go
package source

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// AdminHandler exposes the watcher over HTTP so operators can check sync
// state and force a pass without restarting the daemon.
type AdminHandler struct {
	watcher *Watcher
	source  ReportSource
}

func NewAdminHandler(watcher *Watcher, source ReportSource) *AdminHandler {
	return &AdminHandler{
		watcher: watcher,
		source:  source,
	}
}

func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/source/status", h.GetStatus).Methods("GET")
	router.HandleFunc("/api/source/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/source/sync", h.TriggerSync).Methods("POST")
}

func (h *AdminHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.watcher.Status())
}

func (h *AdminHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.source.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

func (h *AdminHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	fetched, err := h.watcher.Sync(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"fetched": fetched})
}
