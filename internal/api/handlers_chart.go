package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iammorganparry/hwsim/internal/chart"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

const (
	defaultChartWidth  = 800
	defaultChartHeight = 400
)

// Chart handles GET /sessions/{id}/chart.png?group=&track=
func (h *SessionHandler) Chart(w http.ResponseWriter, r *http.Request) {
	group, ok := parseGroup(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "group must be paired or drift")
		return
	}
	index := -1
	if v := r.URL.Query().Get("track"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			writeError(w, http.StatusBadRequest, "track must be a non-negative integer")
			return
		}
		index = i
	}

	resp, err := h.svc.Tracks(chi.URLParam(r, "id"), group)
	if err != nil {
		writeErr(w, err)
		return
	}
	tracks := resp.Tracks
	if index >= 0 {
		if index >= len(tracks) {
			writeErr(w, simulation.ErrUnknownTrack)
			return
		}
		tracks = tracks[index : index+1]
	}

	title := "Allele frequencies"
	if len(tracks) == 1 {
		title += " " + tracks[0].Name
	}

	var buf bytes.Buffer
	err = chart.RenderPNG(&buf, title, chart.FromTracks(tracks), defaultChartWidth, defaultChartHeight)
	if errors.Is(err, chart.ErrNoSeries) {
		writeError(w, http.StatusConflict, "no tracks to draw yet")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
