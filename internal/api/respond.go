package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iammorganparry/hwsim/internal/genetics"
	"github.com/iammorganparry/hwsim/internal/population"
	"github.com/iammorganparry/hwsim/internal/sessions"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeErr maps a service or simulation error onto a status code.
func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, sessions.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, simulation.ErrInvalidTransition),
		errors.Is(err, simulation.ErrNotReady),
		errors.Is(err, simulation.ErrInvalidPopulationTotal):
		return http.StatusConflict
	case errors.Is(err, simulation.ErrUnknownTrack):
		return http.StatusNotFound
	case errors.Is(err, sessions.ErrInvalidRequest),
		errors.Is(err, simulation.ErrInvalidStepCount),
		errors.Is(err, simulation.ErrInconsistentSeeds),
		errors.Is(err, genetics.ErrInvalidPopulationSize),
		errors.Is(err, population.ErrInvalidSeed),
		errors.Is(err, simulation.ErrInvalidScenario):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
