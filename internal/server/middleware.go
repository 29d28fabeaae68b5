package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/session"
)

type ctxKey int

const ctxKeyLevelID ctxKey = iota

// requireSession rejects requests while no game session is active.
func requireSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store.Session() == nil {
				writeError(w, http.StatusConflict, "no active session")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func levelIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "levelID"))
		if err != nil || id < 1 {
			writeError(w, http.StatusBadRequest, "invalid level id")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyLevelID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func levelIDFrom(r *http.Request) int {
	return r.Context().Value(ctxKeyLevelID).(int)
}
