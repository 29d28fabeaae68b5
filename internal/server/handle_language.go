package server

import (
	"net/http"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/i18n"
)

type LanguageRequest struct {
	Language string `json:"language"`
}

type LanguageResponse struct {
	Language string `json:"language"`
}

// handleSetLanguage changes the global display language. The session store
// follows through its subscription.
func handleSetLanguage(setting *i18n.Setting) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LanguageRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		lang, err := farmquest.ParseLanguage(req.Language)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		setting.Set(lang)
		writeJSON(w, http.StatusOK, LanguageResponse{Language: string(setting.Get())})
	}
}
