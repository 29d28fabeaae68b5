package server

import (
	"time"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/session"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type AnswerDTO struct {
	QuestionID          string `json:"questionId"`
	SelectedAnswerIndex int    `json:"selectedAnswerIndex"`
	IsCorrect           bool   `json:"isCorrect"`
	TimeSpent           int    `json:"timeSpent"`
}

type LevelProgressDTO struct {
	LevelID        int         `json:"levelId"`
	Status         string      `json:"status"`
	Score          int         `json:"score"`
	CompletedAt    *time.Time  `json:"completedAt,omitempty"`
	CorrectAnswers int         `json:"correctAnswers"`
	TotalQuestions int         `json:"totalQuestions"`
	Answers        []AnswerDTO `json:"answers"`
}

type CropProgressDTO struct {
	CropType       string                   `json:"cropType"`
	LevelsProgress map[int]LevelProgressDTO `json:"levelsProgress"`
	TotalScore     int                      `json:"totalScore"`
	CurrentLevel   int                      `json:"currentLevel"`
}

type SessionDTO struct {
	PlayerID     string                     `json:"playerId"`
	PlayerName   string                     `json:"playerName"`
	SelectedCrop *string                    `json:"selectedCrop"`
	CurrentLevel *int                       `json:"currentLevel"`
	CropProgress map[string]CropProgressDTO `json:"cropProgress"`
	StartedAt    time.Time                  `json:"startedAt"`
}

// QuestionDTO omits the correct answer; it is revealed on submit.
type QuestionDTO struct {
	ID         string   `json:"id"`
	CropType   string   `json:"cropType"`
	LevelID    int      `json:"levelId"`
	Prompt     string   `json:"question"`
	Options    []string `json:"options"`
	PointValue int      `json:"points"`
}

type PositionDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type LevelDTO struct {
	ID                        int         `json:"id"`
	Title                     string      `json:"title"`
	Description               string      `json:"description"`
	Difficulty                string      `json:"difficulty"`
	Duration                  string      `json:"duration"`
	Position                  PositionDTO `json:"position"`
	MaxQuestionsFailedAllowed int         `json:"maxQuestionsFailedAllowed"`
	Status                    string      `json:"status"`
}

type StateResponse struct {
	Session              *SessionDTO  `json:"session"`
	CurrentQuestionIndex int          `json:"currentQuestionIndex"`
	TotalQuestions       int          `json:"totalQuestions"`
	CurrentQuestion      *QuestionDTO `json:"currentQuestion"`
	SelectedAnswerIndex  *int         `json:"selectedAnswerIndex"`
	ShowFeedback         bool         `json:"showFeedback"`
	Answers              []AnswerDTO  `json:"answers"`
	Language             string       `json:"language"`
	IsLoading            bool         `json:"isLoading"`
	Error                string       `json:"error,omitempty"`
}

func toAnswerDTOs(as []farmquest.Answer) []AnswerDTO {
	out := make([]AnswerDTO, 0, len(as))
	for _, a := range as {
		out = append(out, AnswerDTO{
			QuestionID:          a.QuestionID,
			SelectedAnswerIndex: a.SelectedAnswerIndex,
			IsCorrect:           a.IsCorrect,
			TimeSpent:           a.TimeSpentSeconds,
		})
	}
	return out
}

func toLevelProgressDTO(lp farmquest.LevelProgress) LevelProgressDTO {
	return LevelProgressDTO{
		LevelID:        lp.LevelID,
		Status:         string(lp.Status),
		Score:          lp.Score,
		CompletedAt:    lp.CompletedAt,
		CorrectAnswers: lp.CorrectAnswers,
		TotalQuestions: lp.TotalQuestions,
		Answers:        toAnswerDTOs(lp.Answers),
	}
}

func toSessionDTO(s *farmquest.GameSession) *SessionDTO {
	if s == nil {
		return nil
	}
	dto := &SessionDTO{
		PlayerID:     s.PlayerID,
		PlayerName:   s.PlayerName,
		CurrentLevel: s.CurrentLevel,
		CropProgress: make(map[string]CropProgressDTO, len(s.CropProgress)),
		StartedAt:    s.StartedAt,
	}
	if s.SelectedCrop != nil {
		crop := string(*s.SelectedCrop)
		dto.SelectedCrop = &crop
	}
	for crop, cp := range s.CropProgress {
		levels := make(map[int]LevelProgressDTO, len(cp.LevelsProgress))
		for id, lp := range cp.LevelsProgress {
			levels[id] = toLevelProgressDTO(lp)
		}
		dto.CropProgress[string(crop)] = CropProgressDTO{
			CropType:       string(cp.CropType),
			LevelsProgress: levels,
			TotalScore:     cp.TotalScore,
			CurrentLevel:   cp.CurrentLevel,
		}
	}
	return dto
}

func toQuestionDTO(q farmquest.Question) *QuestionDTO {
	return &QuestionDTO{
		ID:         q.ID,
		CropType:   string(q.CropType),
		LevelID:    q.LevelID,
		Prompt:     q.Prompt,
		Options:    q.Options,
		PointValue: q.PointValue,
	}
}

func toLevelDTO(v session.LevelView) LevelDTO {
	return LevelDTO{
		ID:                        v.ID,
		Title:                     v.Title,
		Description:               v.Description,
		Difficulty:                string(v.Difficulty),
		Duration:                  v.DurationLabel,
		Position:                  PositionDTO{X: v.Position.X, Y: v.Position.Y},
		MaxQuestionsFailedAllowed: v.MaxQuestionsFailedAllowed,
		Status:                    string(v.Status),
	}
}

func toStateResponse(st session.State) StateResponse {
	resp := StateResponse{
		Session:              toSessionDTO(st.Session),
		CurrentQuestionIndex: st.CurrentQuestionIndex,
		TotalQuestions:       len(st.CurrentQuestions),
		SelectedAnswerIndex:  st.SelectedAnswerIndex,
		ShowFeedback:         st.ShowFeedback,
		Answers:              toAnswerDTOs(st.Answers),
		Language:             string(st.Language),
		IsLoading:            st.IsLoading,
	}
	if st.CurrentQuestionIndex < len(st.CurrentQuestions) {
		resp.CurrentQuestion = toQuestionDTO(st.CurrentQuestions[st.CurrentQuestionIndex])
	}
	if st.LastError != nil {
		resp.Error = st.LastError.Message
	}
	return resp
}
