package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/grindhq/grindd/internal/store"
	"github.com/grindhq/grindd/internal/validation"
)

// LimitsHandler manages per-domain daily time limits and usage queries
type LimitsHandler struct {
	store *store.Store
}

// NewLimitsHandler creates a new limits handler
func NewLimitsHandler(st *store.Store) *LimitsHandler {
	return &LimitsHandler{store: st}
}

// RegisterRoutes registers limit and usage routes on the given router
func (h *LimitsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/limits", h.List).Methods("GET")
	r.HandleFunc("/limits/{domain}", h.Get).Methods("GET")
	r.HandleFunc("/limits/{domain}", h.Set).Methods("PUT")
	r.HandleFunc("/limits/{domain}", h.Remove).Methods("DELETE")
	r.HandleFunc("/usage", h.Usage).Methods("GET")
}

// SetLimitRequest carries a daily limit in minutes
type SetLimitRequest struct {
	Minutes int `json:"minutes" validate:"required,limit_minutes"`
}

// LimitResponse reports one domain's configured limit
type LimitResponse struct {
	Domain  string `json:"domain"`
	Seconds int    `json:"seconds"`
	Minutes int    `json:"minutes"`
}

// List returns all configured limits in seconds
func (h *LimitsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.TimeLimits(r.Context()))
}

// Get returns one domain's limit
func (h *LimitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	domain := validation.NormalizeDomain(mux.Vars(r)["domain"])

	seconds := h.store.TimeLimit(r.Context(), domain)
	if seconds <= 0 {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No limit configured for "+domain)
		return
	}
	respondJSON(w, http.StatusOK, LimitResponse{Domain: domain, Seconds: seconds, Minutes: seconds / 60})
}

// Set configures a domain's daily limit
func (h *LimitsHandler) Set(w http.ResponseWriter, r *http.Request) {
	domain := validation.NormalizeDomain(mux.Vars(r)["domain"])
	if err := validation.ValidateDomain(domain); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	var req SetLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validation.ValidateLimitMinutes(req.Minutes); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	seconds := req.Minutes * 60
	h.store.SetTimeLimit(r.Context(), domain, seconds)
	respondJSON(w, http.StatusOK, LimitResponse{Domain: domain, Seconds: seconds, Minutes: req.Minutes})
}

// Remove deletes a domain's limit
func (h *LimitsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	domain := validation.NormalizeDomain(mux.Vars(r)["domain"])
	if h.store.TimeLimit(r.Context(), domain) <= 0 {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No limit configured for "+domain)
		return
	}
	h.store.RemoveTimeLimit(r.Context(), domain)
	respondJSON(w, http.StatusOK, map[string]any{"domain": domain, "removed": true})
}

// Usage returns today's usage, either the full map or one domain's record
func (h *LimitsHandler) Usage(w http.ResponseWriter, r *http.Request) {
	if domain := validation.NormalizeDomain(r.URL.Query().Get("domain")); domain != "" {
		record, ok := h.store.DomainUsage(r.Context(), domain)
		if !ok {
			respondJSONError(w, http.StatusNotFound, "Not Found", "No usage recorded for "+domain)
			return
		}
		respondJSON(w, http.StatusOK, record)
		return
	}
	respondJSON(w, http.StatusOK, h.store.DailyUsage(r.Context()))
}
