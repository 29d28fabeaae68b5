package server

import (
	"net/http"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/session"
)

type QuestionInput struct {
	ID                 string   `json:"id"`
	Prompt             string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswer"`
	Explanations       []string `json:"explanations,omitempty"`
	PointValue         int      `json:"points"`
}

type StartWithQuestionsRequest struct {
	Questions []QuestionInput `json:"questions"`
}

func handleListLevels(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views := store.LevelsForCurrentCrop()
		out := make([]LevelDTO, 0, len(views))
		for _, v := range views {
			out = append(out, toLevelDTO(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleLevelProgress(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lp, ok := store.LevelProgress(levelIDFrom(r))
		if !ok {
			writeError(w, http.StatusNotFound, "level not found")
			return
		}
		writeJSON(w, http.StatusOK, toLevelProgressDTO(lp))
	}
}

func handleStartLevel(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.StartLevel(r.Context(), levelIDFrom(r)); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(store.Snapshot()))
	}
}

// handleStartLevelWithQuestions starts a level with a caller-supplied
// question list, e.g. one produced by a recommendation service.
func handleStartLevelWithQuestions(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartWithQuestionsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Questions) == 0 {
			writeError(w, http.StatusBadRequest, "questions are required")
			return
		}

		levelID := levelIDFrom(r)
		var crop farmquest.CropType
		if sess := store.Session(); sess != nil && sess.SelectedCrop != nil {
			crop = *sess.SelectedCrop
		}

		qs := make([]farmquest.Question, 0, len(req.Questions))
		for _, in := range req.Questions {
			q := farmquest.Question{
				ID:                 in.ID,
				CropType:           crop,
				LevelID:            levelID,
				Prompt:             in.Prompt,
				Options:            in.Options,
				CorrectAnswerIndex: in.CorrectAnswerIndex,
				Explanations:       in.Explanations,
				PointValue:         in.PointValue,
			}
			if err := q.Validate(); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			qs = append(qs, q)
		}

		if err := store.StartLevelWithQuestions(r.Context(), levelID, qs); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(store.Snapshot()))
	}
}
