package session

import "github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"

// LevelView is a level definition overlaid with the player's status.
type LevelView struct {
	farmquest.Level
	Status farmquest.LevelStatus
}

// State is a read-only copy of everything the UI renders.
type State struct {
	Session              *farmquest.GameSession
	CurrentQuestions     []farmquest.Question
	CurrentQuestionIndex int
	SelectedAnswerIndex  *int
	ShowFeedback         bool
	Answers              []farmquest.Answer
	Language             farmquest.Language
	IsLoading            bool
	LastError            *Error
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Session:              s.session.Clone(),
		CurrentQuestions:     append([]farmquest.Question(nil), s.currentQuestions...),
		CurrentQuestionIndex: s.currentQuestionIndex,
		ShowFeedback:         s.showFeedback,
		Answers:              append([]farmquest.Answer{}, s.answers...),
		Language:             s.language,
		IsLoading:            s.loading,
	}
	if s.selectedAnswerIndex != nil {
		i := *s.selectedAnswerIndex
		st.SelectedAnswerIndex = &i
	}
	if s.lastErr != nil {
		e := *s.lastErr
		st.LastError = &e
	}
	return st
}

// Session returns a copy of the current session, or nil.
func (s *Store) Session() *farmquest.GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the message of the latest failed action, or "".
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastErr == nil {
		return ""
	}
	return s.lastErr.Message
}

// LevelsForCurrentCrop lists every level in id order with the selected
// crop's status. Levels missing from progress are reported locked.
func (s *Store) LevelsForCurrentCrop() []LevelView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	crop, ok := s.selectedCropLocked()
	if !ok {
		return []LevelView{}
	}
	progress := s.session.CropProgress[crop].LevelsProgress

	out := make([]LevelView, 0, len(s.levels))
	for _, l := range s.levels {
		status := farmquest.LevelLocked
		if lp, ok := progress[l.ID]; ok {
			status = lp.Status
		}
		out = append(out, LevelView{Level: l, Status: status})
	}
	return out
}

// CurrentLevel returns the definition of the level being played.
func (s *Store) CurrentLevel() (farmquest.Level, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || s.session.CurrentLevel == nil {
		return farmquest.Level{}, false
	}
	return farmquest.LevelByID(s.levels, *s.session.CurrentLevel)
}

func (s *Store) CurrentQuestion() (farmquest.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentQuestionIndex >= len(s.currentQuestions) {
		return farmquest.Question{}, false
	}
	return s.currentQuestions[s.currentQuestionIndex], true
}

// LevelProgress returns the selected crop's progress for levelID.
func (s *Store) LevelProgress(levelID int) (farmquest.LevelProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	crop, ok := s.selectedCropLocked()
	if !ok {
		return farmquest.LevelProgress{}, false
	}
	lp, ok := s.session.CropProgress[crop].LevelsProgress[levelID]
	if !ok {
		return farmquest.LevelProgress{}, false
	}
	return lp.Clone(), true
}
