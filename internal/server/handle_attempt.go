package server

import (
	"net/http"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/session"
)

type SelectAnswerRequest struct {
	Index *int `json:"index"`
}

type SubmitAnswerResponse struct {
	Answer             AnswerDTO `json:"answer"`
	CorrectAnswerIndex int       `json:"correctAnswer"`
	Explanation        string    `json:"explanation,omitempty"`
}

type NextQuestionResponse struct {
	Advanced             bool         `json:"advanced"`
	CurrentQuestionIndex int          `json:"currentQuestionIndex"`
	CurrentQuestion      *QuestionDTO `json:"currentQuestion"`
}

type FinishLevelResponse struct {
	Progress LevelProgressDTO `json:"progress"`
	Levels   []LevelDTO       `json:"levels"`
}

func handleCurrentQuestion(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := store.CurrentQuestion()
		if !ok {
			writeError(w, http.StatusNotFound, "no level in progress")
			return
		}
		writeJSON(w, http.StatusOK, toQuestionDTO(q))
	}
}

// handleSelectAnswer records a tentative choice. Selections after submit or
// out of range are ignored by the store; the returned state shows the result.
func handleSelectAnswer(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectAnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Index == nil {
			writeError(w, http.StatusBadRequest, "index is required")
			return
		}

		store.SelectAnswer(*req.Index)
		writeJSON(w, http.StatusOK, toStateResponse(store.Snapshot()))
	}
}

func handleSubmitAnswer(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := store.SubmitAnswer()
		if !ok {
			writeError(w, http.StatusConflict, "nothing to submit")
			return
		}

		resp := SubmitAnswerResponse{
			Answer: AnswerDTO{
				QuestionID:          a.QuestionID,
				SelectedAnswerIndex: a.SelectedAnswerIndex,
				IsCorrect:           a.IsCorrect,
				TimeSpent:           a.TimeSpentSeconds,
			},
		}
		// The index has not advanced yet, so this is the graded question.
		if q, ok := store.CurrentQuestion(); ok {
			resp.CorrectAnswerIndex = q.CorrectAnswerIndex
			if a.SelectedAnswerIndex < len(q.Explanations) {
				resp.Explanation = q.Explanations[a.SelectedAnswerIndex]
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleNextQuestion(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		advanced := store.NextQuestion()
		resp := NextQuestionResponse{
			Advanced:             advanced,
			CurrentQuestionIndex: store.Snapshot().CurrentQuestionIndex,
		}
		if q, ok := store.CurrentQuestion(); ok {
			resp.CurrentQuestion = toQuestionDTO(q)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleFinishLevel(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(store.Snapshot().CurrentQuestions) == 0 {
			writeError(w, http.StatusConflict, "no level in progress")
			return
		}

		lp, err := store.FinishLevel(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		views := store.LevelsForCurrentCrop()
		levels := make([]LevelDTO, 0, len(views))
		for _, v := range views {
			levels = append(levels, toLevelDTO(v))
		}
		writeJSON(w, http.StatusOK, FinishLevelResponse{
			Progress: toLevelProgressDTO(lp),
			Levels:   levels,
		})
	}
}
