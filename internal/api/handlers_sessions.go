package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iammorganparry/hwsim/internal/models"
	"github.com/iammorganparry/hwsim/internal/sessions"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

// SessionHandler handles exercise session HTTP requests.
type SessionHandler struct {
	svc      *sessions.Service
	maxSteps int
}

// NewSessionHandler creates a new session handler. maxSteps caps a single
// advance request.
func NewSessionHandler(svc *sessions.Service, maxSteps int) *SessionHandler {
	return &SessionHandler{svc: svc, maxSteps: maxSteps}
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	resp, err := h.svc.Create(&req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := h.svc.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []*models.Session{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": list,
	})
}

// Get handles GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DefinePopulation handles POST /sessions/{id}/population
func (h *SessionHandler) DefinePopulation(w http.ResponseWriter, r *http.Request) {
	var req models.PopulationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.DefinePopulation(chi.URLParam(r, "id"), &req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ProposeFrequency handles POST /sessions/{id}/candidate
func (h *SessionHandler) ProposeFrequency(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.P == nil {
		writeError(w, http.StatusBadRequest, "p is required")
		return
	}

	res, err := h.svc.ProposeFrequency(chi.URLParam(r, "id"), &req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Overwrite handles POST /sessions/{id}/overwrite
func (h *SessionHandler) Overwrite(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.OverwriteWithTheoretical(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Start handles POST /sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	resp, err := h.svc.Start(chi.URLParam(r, "id"), &req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Advance handles POST /sessions/{id}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req models.AdvanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if h.maxSteps > 0 && req.Steps > h.maxSteps {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("steps must be at most %d", h.maxSteps))
		return
	}
	switch req.Group {
	case "", simulation.GroupPaired, simulation.GroupDrift:
	default:
		writeError(w, http.StatusBadRequest, "group must be paired or drift")
		return
	}

	resp, err := h.svc.Advance(chi.URLParam(r, "id"), &req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// BeginDrift handles POST /sessions/{id}/drift
func (h *SessionHandler) BeginDrift(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.BeginDriftComparison(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Conclude handles POST /sessions/{id}/conclude
func (h *SessionHandler) Conclude(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Conclude(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Reset handles POST /sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Reset(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// History handles GET /sessions/{id}/history?group=paired|drift
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	group, ok := parseGroup(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "group must be paired or drift")
		return
	}

	resp, err := h.svc.Tracks(chi.URLParam(r, "id"), group)
	if err != nil {
		writeErr(w, err)
		return
	}
	if resp.Tracks == nil {
		resp.Tracks = []simulation.TrackView{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats handles GET /sessions/{id}/stats
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Stats(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Events handles GET /sessions/{id}/events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.svc.Events(chi.URLParam(r, "id"), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	if events == nil {
		events = []*models.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
	})
}

func parseGroup(r *http.Request) (simulation.Group, bool) {
	switch g := simulation.Group(r.URL.Query().Get("group")); g {
	case "", simulation.GroupPaired, simulation.GroupDrift:
		return g, true
	}
	return "", false
}
