package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/grindhq/grindd/internal/browser"
	"github.com/grindhq/grindd/internal/models"
	"github.com/grindhq/grindd/internal/store"
	"github.com/grindhq/grindd/internal/validation"
)

// SettingsHandler manages preferences, the productive list, the badge, and
// data export/import.
type SettingsHandler struct {
	store     *store.Store
	messenger browser.Messenger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(st *store.Store, messenger browser.Messenger) *SettingsHandler {
	return &SettingsHandler{store: st, messenger: messenger}
}

// RegisterRoutes registers settings routes on the given router
func (h *SettingsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/settings", h.Get).Methods("GET")
	r.HandleFunc("/settings", h.Update).Methods("PUT")
	r.HandleFunc("/settings/theme", h.SetTheme).Methods("PUT")
	r.HandleFunc("/productive-sites", h.ListProductive).Methods("GET")
	r.HandleFunc("/productive-sites", h.AddProductive).Methods("POST")
	r.HandleFunc("/productive-sites/{domain}", h.RemoveProductive).Methods("DELETE")
	r.HandleFunc("/badge", h.SetBadge).Methods("POST")
	r.HandleFunc("/export", h.Export).Methods("GET")
	r.HandleFunc("/import", h.Import).Methods("POST")
}

// ThemeRequest carries a UI theme change
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}

// BadgeRequest carries extension badge text
type BadgeRequest struct {
	Text string `json:"text" validate:"max=4"`
}

// ProductiveSiteRequest carries one productive-list domain
type ProductiveSiteRequest struct {
	Domain string `json:"domain" validate:"required,domain"`
}

// Get returns the synced preferences
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Settings(r.Context()))
}

// Update replaces the synced preferences
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if settings.Theme != "" {
		if err := validation.ValidateTheme(settings.Theme); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
	}

	h.store.SetSettings(r.Context(), settings)
	respondJSON(w, http.StatusOK, h.store.Settings(r.Context()))
}

// SetTheme updates only the theme preference
func (h *SettingsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validation.ValidateTheme(req.Theme); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	h.store.SetTheme(r.Context(), req.Theme)
	respondJSON(w, http.StatusOK, map[string]any{"theme": req.Theme})
}

// ListProductive returns the user's productive-site list
func (h *SettingsHandler) ListProductive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.ProductiveSites(r.Context()))
}

// AddProductive appends a domain to the productive list
func (h *SettingsHandler) AddProductive(w http.ResponseWriter, r *http.Request) {
	var req ProductiveSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	req.Domain = validation.NormalizeDomain(req.Domain)
	if err := validation.ValidateDomain(req.Domain); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	h.store.AddProductiveSite(r.Context(), req.Domain)
	respondJSON(w, http.StatusOK, h.store.ProductiveSites(r.Context()))
}

// RemoveProductive removes a domain from the productive list
func (h *SettingsHandler) RemoveProductive(w http.ResponseWriter, r *http.Request) {
	domain := validation.NormalizeDomain(mux.Vars(r)["domain"])
	h.store.RemoveProductiveSite(r.Context(), domain)
	respondJSON(w, http.StatusOK, h.store.ProductiveSites(r.Context()))
}

// SetBadge pushes badge text to the extension
func (h *SettingsHandler) SetBadge(w http.ResponseWriter, r *http.Request) {
	var req BadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}

	if err := h.messenger.SetBadge(r.Context(), req.Text); err != nil {
		if errors.Is(err, browser.ErrTabNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Extension bridge is not reachable")
			return
		}
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"text": req.Text})
}

// Export snapshots both partitions into a versioned blob
func (h *SettingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	blob, err := h.store.ExportAll(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, blob)
}

// Import restores a previously exported blob, overwriting matching keys
func (h *SettingsHandler) Import(w http.ResponseWriter, r *http.Request) {
	var blob store.ExportBlob
	if err := json.NewDecoder(r.Body).Decode(&blob); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if blob.Version == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Export blob has no version")
		return
	}

	if err := h.store.ImportAll(r.Context(), &blob); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"imported": true, "version": blob.Version})
}
