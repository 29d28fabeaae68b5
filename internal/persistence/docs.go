package persistence

import (
	"fmt"
	"time"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
)

// Document types serialised under SessionKey.

type sessionDoc struct {
	PlayerID     string                     `json:"playerId"`
	PlayerName   string                     `json:"playerName"`
	SelectedCrop *string                    `json:"selectedCrop"`
	CurrentLevel *int                       `json:"currentLevel"`
	CropProgress map[string]cropProgressDoc `json:"cropProgress"`
	StartedAt    string                     `json:"startedAt"`
}

type cropProgressDoc struct {
	CropType       string                   `json:"cropType"`
	CurrentLevel   int                      `json:"currentLevel"`
	TotalScore     int                      `json:"totalScore"`
	LevelsProgress map[int]levelProgressDoc `json:"levelsProgress"`
}

type levelProgressDoc struct {
	LevelID        int         `json:"levelId"`
	Status         string      `json:"status"`
	Score          int         `json:"score"`
	CorrectAnswers int         `json:"correctAnswers"`
	TotalQuestions int         `json:"totalQuestions"`
	CompletedAt    *string     `json:"completedAt,omitempty"`
	Answers        []answerDoc `json:"answers"`
}

type answerDoc struct {
	QuestionID          string `json:"questionId"`
	SelectedAnswerIndex int    `json:"selectedAnswerIndex"`
	IsCorrect           bool   `json:"isCorrect"`
	TimeSpentSeconds    int    `json:"timeSpent"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toSessionDoc(s *farmquest.GameSession) sessionDoc {
	d := sessionDoc{
		PlayerID:     s.PlayerID,
		PlayerName:   s.PlayerName,
		CurrentLevel: s.CurrentLevel,
		CropProgress: make(map[string]cropProgressDoc, len(s.CropProgress)),
		StartedAt:    formatTime(s.StartedAt),
	}
	if s.SelectedCrop != nil {
		crop := string(*s.SelectedCrop)
		d.SelectedCrop = &crop
	}
	for crop, cp := range s.CropProgress {
		d.CropProgress[string(crop)] = toCropProgressDoc(cp)
	}
	return d
}

func toCropProgressDoc(cp farmquest.CropProgress) cropProgressDoc {
	d := cropProgressDoc{
		CropType:       string(cp.CropType),
		CurrentLevel:   cp.CurrentLevel,
		TotalScore:     cp.TotalScore,
		LevelsProgress: make(map[int]levelProgressDoc, len(cp.LevelsProgress)),
	}
	for id, lp := range cp.LevelsProgress {
		ld := levelProgressDoc{
			LevelID:        lp.LevelID,
			Status:         string(lp.Status),
			Score:          lp.Score,
			CorrectAnswers: lp.CorrectAnswers,
			TotalQuestions: lp.TotalQuestions,
			Answers:        make([]answerDoc, 0, len(lp.Answers)),
		}
		if lp.CompletedAt != nil {
			ts := formatTime(*lp.CompletedAt)
			ld.CompletedAt = &ts
		}
		for _, a := range lp.Answers {
			ld.Answers = append(ld.Answers, answerDoc(a))
		}
		d.LevelsProgress[id] = ld
	}
	return d
}

func fromSessionDoc(d sessionDoc) (*farmquest.GameSession, error) {
	startedAt, err := time.Parse(time.RFC3339Nano, d.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing startedAt: %w", err)
	}
	s := &farmquest.GameSession{
		PlayerID:     d.PlayerID,
		PlayerName:   d.PlayerName,
		CurrentLevel: d.CurrentLevel,
		CropProgress: make(map[farmquest.CropType]farmquest.CropProgress, len(d.CropProgress)),
		StartedAt:    startedAt,
	}
	if d.SelectedCrop != nil {
		crop, err := farmquest.ParseCropType(*d.SelectedCrop)
		if err != nil {
			return nil, err
		}
		s.SelectedCrop = &crop
	}
	for key, cd := range d.CropProgress {
		crop, err := farmquest.ParseCropType(key)
		if err != nil {
			return nil, err
		}
		cp, err := fromCropProgressDoc(crop, cd)
		if err != nil {
			return nil, err
		}
		s.CropProgress[crop] = cp
	}
	return s, nil
}

func fromCropProgressDoc(crop farmquest.CropType, d cropProgressDoc) (farmquest.CropProgress, error) {
	cp := farmquest.CropProgress{
		CropType:       crop,
		CurrentLevel:   d.CurrentLevel,
		TotalScore:     d.TotalScore,
		LevelsProgress: make(map[int]farmquest.LevelProgress, len(d.LevelsProgress)),
	}
	for id, ld := range d.LevelsProgress {
		lp := farmquest.LevelProgress{
			LevelID:        ld.LevelID,
			Status:         farmquest.LevelStatus(ld.Status),
			Score:          ld.Score,
			CorrectAnswers: ld.CorrectAnswers,
			TotalQuestions: ld.TotalQuestions,
			Answers:        make([]farmquest.Answer, 0, len(ld.Answers)),
		}
		switch lp.Status {
		case farmquest.LevelLocked, farmquest.LevelAvailable, farmquest.LevelCompleted:
		default:
			return cp, fmt.Errorf("level %d: unknown status %q", id, ld.Status)
		}
		if ld.CompletedAt != nil {
			ts, err := time.Parse(time.RFC3339Nano, *ld.CompletedAt)
			if err != nil {
				return cp, fmt.Errorf("level %d: parsing completedAt: %w", id, err)
			}
			lp.CompletedAt = &ts
		}
		for _, a := range ld.Answers {
			lp.Answers = append(lp.Answers, farmquest.Answer(a))
		}
		cp.LevelsProgress[id] = lp
	}
	return cp, nil
}
