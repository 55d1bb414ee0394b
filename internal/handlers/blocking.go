package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/grindhq/grindd/internal/blocking"
	"github.com/grindhq/grindd/internal/gamify"
	"github.com/grindhq/grindd/internal/models"
	"github.com/grindhq/grindd/internal/store"
	"github.com/grindhq/grindd/internal/validation"
)

// BlockingHandler manages the blocklist and bypass flow
type BlockingHandler struct {
	engine  *blocking.Engine
	store   *store.Store
	awarder *gamify.Awarder
}

// NewBlockingHandler creates a new blocking handler
func NewBlockingHandler(engine *blocking.Engine, st *store.Store, awarder *gamify.Awarder) *BlockingHandler {
	return &BlockingHandler{engine: engine, store: st, awarder: awarder}
}

// RegisterRoutes registers blocklist routes on the given router
func (h *BlockingHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/blocked-sites", h.List).Methods("GET")
	r.HandleFunc("/blocked-sites", h.Add).Methods("POST")
	r.HandleFunc("/blocked-sites/test", h.Test).Methods("POST")
	r.HandleFunc("/blocked-sites/check-all", h.CheckAll).Methods("POST")
	r.HandleFunc("/blocked-sites/{domain}", h.Remove).Methods("DELETE")
	r.HandleFunc("/blocked-sites/{domain}/bypass", h.Bypass).Methods("POST")
}

// BlockEntryRequest carries one blocklist entry
type BlockEntryRequest struct {
	Domain string `json:"domain" validate:"required,block_entry"`
}

// TestBlockingRequest asks whether a domain would be blocked right now
type TestBlockingRequest struct {
	Domain string `json:"domain" validate:"required,domain"`
}

// List returns the current blocklist
func (h *BlockingHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.BlockedSites(r.Context()))
}

// Add puts an entry on the blocklist
func (h *BlockingHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req BlockEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	req.Domain = validation.NormalizeDomain(req.Domain)
	if err := validation.ValidateBlockEntry(req.Domain); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	added := h.engine.Add(r.Context(), req.Domain)
	if added {
		// Only deliberate blocks count toward the challenge; limit-driven
		// auto-blocks and worker re-blocks never pass through this handler.
		h.awarder.RecordChallengeEvent(r.Context(), models.ChallengeBlockSites, 1)
	}
	respondJSON(w, http.StatusOK, map[string]any{"domain": req.Domain, "added": added})
}

// Remove takes an entry off the blocklist
func (h *BlockingHandler) Remove(w http.ResponseWriter, r *http.Request) {
	domain := validation.NormalizeDomain(mux.Vars(r)["domain"])

	if !h.engine.Remove(r.Context(), domain) {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Entry is not on the block list")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"domain": domain, "removed": true})
}

// Test reports whether a domain is covered by the current blocklist
func (h *BlockingHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req TestBlockingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	req.Domain = validation.NormalizeDomain(req.Domain)
	if err := validation.ValidateDomain(req.Domain); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	blocked := h.engine.IsBlocked(r.Context(), req.Domain)
	respondJSON(w, http.StatusOK, map[string]any{"domain": req.Domain, "blocked": blocked})
}

// CheckAll sweeps every open tab against the blocklist
func (h *BlockingHandler) CheckAll(w http.ResponseWriter, r *http.Request) {
	h.engine.CheckAllTabs(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{"checked": true})
}

// Bypass lets the user through a limit block for the bypass window
func (h *BlockingHandler) Bypass(w http.ResponseWriter, r *http.Request) {
	domain := validation.NormalizeDomain(mux.Vars(r)["domain"])
	if err := validation.ValidateDomain(domain); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	if err := h.engine.Bypass(r.Context(), domain); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"domain": domain, "bypassed": true})
}
