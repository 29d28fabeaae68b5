package server

import (
	"net/http"
	"strings"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/session"
)

type InitSessionRequest struct {
	PlayerName string `json:"playerName"`
	Crop       string `json:"crop"`
}

type SelectCropRequest struct {
	Crop string `json:"crop"`
}

func handleGetSession(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toStateResponse(store.Snapshot()))
	}
}

func handleInitSession(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InitSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "playerName is required")
			return
		}
		crop, err := farmquest.ParseCropType(req.Crop)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.InitializeSession(r.Context(), req.PlayerName, crop); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toStateResponse(store.Snapshot()))
	}
}

// handleContinueSession keeps an existing player and switches crop, or
// starts a new session. playerName is optional.
func handleContinueSession(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InitSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		crop, err := farmquest.ParseCropType(req.Crop)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.InitializeOrContinueSession(r.Context(), crop, req.PlayerName); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(store.Snapshot()))
	}
}

func handleLoadSession(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.LoadSession(r.Context()); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(store.Snapshot()))
	}
}

func handleClearSession(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.ClearSession(r.Context()); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSelectCrop(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectCropRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		crop, err := farmquest.ParseCropType(req.Crop)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := store.SelectCrop(r.Context(), crop); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(store.Snapshot()))
	}
}
