package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeStoreError maps a failed store action to a status code. The body
// carries the player-facing message and the error kind.
func writeStoreError(w http.ResponseWriter, err error) {
	var se *session.Error
	if !errors.As(err, &se) {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch se.Kind {
	case session.KindFetchFailed:
		status = http.StatusBadGateway
	case session.KindLevelLocked:
		status = http.StatusConflict
	}
	writeJSON(w, status, ErrorResponse{Error: se.Message, Kind: string(se.Kind)})
}
