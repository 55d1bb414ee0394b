package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/grindhq/grindd/internal/gamify"
	"github.com/grindhq/grindd/internal/models"
	"github.com/grindhq/grindd/internal/store"
)

// FocusHandler drives the focus timer and serves gamification state
type FocusHandler struct {
	store   *store.Store
	awarder *gamify.Awarder
}

// NewFocusHandler creates a new focus handler
func NewFocusHandler(st *store.Store, awarder *gamify.Awarder) *FocusHandler {
	return &FocusHandler{store: st, awarder: awarder}
}

// RegisterRoutes registers focus and gamification routes on the given router
func (h *FocusHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/focus", h.Get).Methods("GET")
	r.HandleFunc("/focus/start", h.Start).Methods("POST")
	r.HandleFunc("/focus/pause", h.Pause).Methods("POST")
	r.HandleFunc("/focus/end", h.End).Methods("POST")
	r.HandleFunc("/gamification", h.Gamification).Methods("GET")
	r.HandleFunc("/galaxy", h.Galaxy).Methods("GET")
}

// StartFocusRequest optionally overrides the configured session length
type StartFocusRequest struct {
	Minutes int `json:"minutes,omitempty"`
}

// GamificationResponse bundles the XP state with the daily challenge
type GamificationResponse struct {
	Stats     models.UserStats      `json:"stats"`
	Challenge models.DailyChallenge `json:"challenge"`
}

// EndFocusResponse reports the settled session
type EndFocusResponse struct {
	Completed bool             `json:"completed"`
	Planet    *models.Planet   `json:"planet,omitempty"`
	Stats     models.UserStats `json:"stats"`
}

// Get returns the current focus session, 404 when none is running
func (h *FocusHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := h.store.FocusSessionData(r.Context())
	if session == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No focus session in progress")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Start begins a focus session, or resumes a paused one with its remaining
// time.
func (h *FocusHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// A paused session resumes instead of restarting
	if session := h.store.FocusSessionData(ctx); session != nil {
		if session.Active {
			respondJSONError(w, http.StatusConflict, "Conflict", "A focus session is already running")
			return
		}
		if session.PausedTime > 0 {
			session.Active = true
			session.EndTime = time.Now().UnixMilli() + session.PausedTime
			session.PausedTime = 0
			h.store.SetFocusSession(ctx, *session)
			respondJSON(w, http.StatusOK, session)
			return
		}
	}

	var req StartFocusRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	minutes := req.Minutes
	if minutes <= 0 {
		minutes = h.store.Settings(ctx).FocusSessionDuration
	}

	now := time.Now().UnixMilli()
	duration := int64(minutes) * 60 * 1000
	session := models.FocusSession{
		Active:    true,
		StartTime: now,
		Duration:  duration,
		EndTime:   now + duration,
	}
	h.store.SetFocusSession(ctx, session)
	respondJSON(w, http.StatusCreated, session)
}

// Pause suspends a running session, keeping its remaining time
func (h *FocusHandler) Pause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session := h.store.FocusSessionData(ctx)
	if session == nil || !session.Active {
		respondJSONError(w, http.StatusConflict, "Conflict", "No active focus session to pause")
		return
	}

	remaining := session.EndTime - time.Now().UnixMilli()
	if remaining < 0 {
		remaining = 0
	}
	session.Active = false
	session.PausedTime = remaining
	h.store.SetFocusSession(ctx, *session)
	respondJSON(w, http.StatusOK, session)
}

// End settles the session: completion XP, challenge progress, and a new
// planet sized by the session's configured length.
func (h *FocusHandler) End(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session := h.store.FocusSessionData(ctx)
	if session == nil {
		respondJSONError(w, http.StatusConflict, "Conflict", "No focus session to end")
		return
	}

	minutes := int(session.Duration / 60000)
	if minutes <= 0 {
		minutes = h.store.Settings(ctx).FocusSessionDuration
	}

	h.store.ClearFocusSession(ctx)
	planet := h.awarder.CompleteFocusSession(ctx, minutes)

	respondJSON(w, http.StatusOK, EndFocusResponse{
		Completed: true,
		Planet:    &planet,
		Stats:     h.store.UserStats(ctx),
	})
}

// Gamification returns the XP state and the current daily challenge
func (h *FocusHandler) Gamification(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, GamificationResponse{
		Stats:     h.store.UserStats(r.Context()),
		Challenge: h.store.Challenge(r.Context()),
	})
}

// Galaxy returns the generated planet collection
func (h *FocusHandler) Galaxy(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Galaxy(r.Context()))
}
