// Package farmquest defines the core domain types of the crop quiz game.
// It has no external dependencies.
package farmquest

import (
	"fmt"
	"time"
)

const (
	// PointsPerCorrectAnswer is the flat score awarded per correct answer.
	// Question.PointValue is carried as reference data but not used for scoring.
	PointsPerCorrectAnswer = 20

	// DefaultMaxQuestionsFailed applies when a level has no tolerance defined.
	DefaultMaxQuestionsFailed = 2
)

type Player struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type CropType string

const (
	CropCorn   CropType = "corn"
	CropPotato CropType = "potato"
	CropQuinoa CropType = "quinoa"
)

// AllCrops returns every crop in display order.
func AllCrops() []CropType {
	return []CropType{CropCorn, CropPotato, CropQuinoa}
}

func ParseCropType(s string) (CropType, error) {
	for _, c := range AllCrops() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown crop type %q", s)
}

type Question struct {
	ID                 string
	CropType           CropType
	LevelID            int
	Prompt             string
	Options            []string
	CorrectAnswerIndex int
	Explanations       []string
	PointValue         int
}

// Validate reports whether the question can be played.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question has no id")
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("question %s has no options", q.ID)
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return fmt.Errorf("question %s: correct answer index %d out of range", q.ID, q.CorrectAnswerIndex)
	}
	if len(q.Explanations) > 0 && len(q.Explanations) != len(q.Options) {
		return fmt.Errorf("question %s: %d explanations for %d options", q.ID, len(q.Explanations), len(q.Options))
	}
	return nil
}

type Answer struct {
	QuestionID          string
	SelectedAnswerIndex int
	IsCorrect           bool
	TimeSpentSeconds    int
}

type LevelStatus string

const (
	LevelLocked    LevelStatus = "locked"
	LevelAvailable LevelStatus = "available"
	LevelCompleted LevelStatus = "completed"
)

type LevelProgress struct {
	LevelID        int
	Status         LevelStatus
	Score          int
	CorrectAnswers int
	TotalQuestions int
	CompletedAt    *time.Time
	Answers        []Answer
}

type CropProgress struct {
	CropType       CropType
	CurrentLevel   int
	TotalScore     int
	LevelsProgress map[int]LevelProgress
}

// NewCropProgress returns progress with every level present: the lowest id
// available and the rest locked.
func NewCropProgress(crop CropType, levels []Level) CropProgress {
	cp := CropProgress{
		CropType:       crop,
		CurrentLevel:   1,
		LevelsProgress: make(map[int]LevelProgress, len(levels)),
	}
	first := 0
	for _, l := range levels {
		if first == 0 || l.ID < first {
			first = l.ID
		}
	}
	if first != 0 {
		cp.CurrentLevel = first
	}
	for _, l := range levels {
		status := LevelLocked
		if l.ID == first {
			status = LevelAvailable
		}
		cp.LevelsProgress[l.ID] = LevelProgress{LevelID: l.ID, Status: status, Answers: []Answer{}}
	}
	return cp
}

// RecomputeTotal sets TotalScore to the sum of all level scores.
func (cp *CropProgress) RecomputeTotal() {
	total := 0
	for _, lp := range cp.LevelsProgress {
		total += lp.Score
	}
	cp.TotalScore = total
}

type GameSession struct {
	PlayerID     string
	PlayerName   string
	SelectedCrop *CropType
	CurrentLevel *int
	CropProgress map[CropType]CropProgress
	StartedAt    time.Time
}

// NewGameSession builds a session for player with progress for every crop.
func NewGameSession(player Player, crop CropType, levels []Level, now time.Time) *GameSession {
	first := 1
	s := &GameSession{
		PlayerID:     player.ID,
		PlayerName:   player.Name,
		SelectedCrop: &crop,
		CurrentLevel: &first,
		CropProgress: make(map[CropType]CropProgress, len(AllCrops())),
		StartedAt:    now,
	}
	for _, c := range AllCrops() {
		s.CropProgress[c] = NewCropProgress(c, levels)
	}
	return s
}

// EnsureCrops fills in any crop or level missing from the session.
func (s *GameSession) EnsureCrops(levels []Level) {
	if s.CropProgress == nil {
		s.CropProgress = make(map[CropType]CropProgress, len(AllCrops()))
	}
	for _, c := range AllCrops() {
		cp, ok := s.CropProgress[c]
		if !ok {
			s.CropProgress[c] = NewCropProgress(c, levels)
			continue
		}
		if cp.LevelsProgress == nil {
			cp.LevelsProgress = make(map[int]LevelProgress, len(levels))
		}
		for _, l := range levels {
			if _, ok := cp.LevelsProgress[l.ID]; !ok {
				cp.LevelsProgress[l.ID] = LevelProgress{LevelID: l.ID, Status: LevelLocked, Answers: []Answer{}}
			}
		}
		cp.CropType = c
		cp.RecomputeTotal()
		s.CropProgress[c] = cp
	}
}

// Clone returns a deep copy safe to hand to readers.
func (s *GameSession) Clone() *GameSession {
	if s == nil {
		return nil
	}
	c := *s
	if s.SelectedCrop != nil {
		crop := *s.SelectedCrop
		c.SelectedCrop = &crop
	}
	if s.CurrentLevel != nil {
		lvl := *s.CurrentLevel
		c.CurrentLevel = &lvl
	}
	c.CropProgress = make(map[CropType]CropProgress, len(s.CropProgress))
	for crop, cp := range s.CropProgress {
		cc := cp
		cc.LevelsProgress = make(map[int]LevelProgress, len(cp.LevelsProgress))
		for id, lp := range cp.LevelsProgress {
			cc.LevelsProgress[id] = lp.Clone()
		}
		c.CropProgress[crop] = cc
	}
	return &c
}

func (lp LevelProgress) Clone() LevelProgress {
	c := lp
	if lp.CompletedAt != nil {
		t := *lp.CompletedAt
		c.CompletedAt = &t
	}
	c.Answers = append([]Answer(nil), lp.Answers...)
	return c
}
