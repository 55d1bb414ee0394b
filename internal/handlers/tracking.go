package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/grindhq/grindd/internal/store"
	"github.com/grindhq/grindd/internal/tracker"
)

// TrackingHandler serves tracking state and ingests tab events from the
// extension shim.
type TrackingHandler struct {
	tracker *tracker.Tracker
	store   *store.Store
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(tr *tracker.Tracker, st *store.Store) *TrackingHandler {
	return &TrackingHandler{tracker: tr, store: st}
}

// RegisterRoutes registers tracking routes on the given router
func (h *TrackingHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/tab", h.GetTabInfo).Methods("GET")
	r.HandleFunc("/stats", h.GetWebsiteStats).Methods("GET")
	r.HandleFunc("/session", h.GetSession).Methods("GET")
	r.HandleFunc("/session", h.ResetSession).Methods("DELETE")
	r.HandleFunc("/events/tab", h.IngestTabEvent).Methods("POST")
}

// TabInfoResponse describes the currently tracked tab
type TabInfoResponse struct {
	TabID     int    `json:"tabId"`
	Domain    string `json:"domain"`
	TimeToday int64  `json:"timeToday"` // milliseconds
	Visits    int    `json:"visits"`
	Category  string `json:"category"`
}

// TabEventRequest is one tab lifecycle event from the shim
type TabEventRequest struct {
	Type   string `json:"type" validate:"required,oneof=activated created removed updated"`
	TabID  int    `json:"tabId"`
	URL    string `json:"url,omitempty"`
	Status string `json:"status,omitempty"`
}

// GetTabInfo returns the active tab with its usage so far today
func (h *TrackingHandler) GetTabInfo(w http.ResponseWriter, r *http.Request) {
	snap := h.tracker.Snapshot()

	info := TabInfoResponse{TabID: snap.TabID, Domain: snap.Domain}
	if snap.Domain != "" {
		if usage, ok := h.store.DomainUsage(r.Context(), snap.Domain); ok {
			info.TimeToday = usage.TimeToday
		}
		if stat, ok := h.store.WebsiteStats(r.Context())[snap.Domain]; ok {
			info.Visits = stat.Visits
			info.Category = string(stat.Category)
		}
	}

	respondJSON(w, http.StatusOK, info)
}

// GetWebsiteStats returns the lifetime per-domain stats map
func (h *TrackingHandler) GetWebsiteStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.WebsiteStats(r.Context()))
}

// GetSession returns the current browsing session record
func (h *TrackingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Session(r.Context()))
}

// ResetSession replaces the session with a fresh record
func (h *TrackingHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	h.store.ResetSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Session(r.Context()))
}

// IngestTabEvent feeds one tab lifecycle event into the tracker
func (h *TrackingHandler) IngestTabEvent(w http.ResponseWriter, r *http.Request) {
	var req TabEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}

	ctx := r.Context()
	switch req.Type {
	case "activated":
		h.tracker.HandleActivated(ctx, req.TabID)
	case "created":
		h.tracker.HandleCreated(ctx, req.TabID)
	case "removed":
		h.tracker.HandleRemoved(ctx, req.TabID)
	case "updated":
		h.tracker.HandleUpdated(ctx, req.TabID, req.URL, req.Status)
	default:
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Unknown event type: "+req.Type)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{"type": req.Type, "tabId": req.TabID})
}
