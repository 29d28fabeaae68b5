package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
)

var errNoQuestions = errors.New("no questions for level")

// StartLevel fetches the questions for levelID in the selected crop and
// current language, then resets the attempt. Without a selected crop it does
// nothing. A failed fetch leaves the previous attempt untouched.
func (s *Store) StartLevel(ctx context.Context, levelID int) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	crop, ok := s.selectedCropLocked()
	lang := s.language
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := s.guardLevel(crop, levelID); err != nil {
		return err
	}

	s.begin()
	qs, err := s.questions.ForLevel(ctx, crop, levelID, lang)
	if err != nil {
		return s.fail(KindFetchFailed, "Failed to load questions", err)
	}
	if len(qs) == 0 {
		return s.fail(KindFetchFailed, "Failed to load questions", fmt.Errorf("%w: %s level %d", errNoQuestions, crop, levelID))
	}
	return s.startAttempt(ctx, crop, levelID, qs)
}

// StartLevelWithQuestions starts levelID with an externally supplied question
// list instead of the question source. The attempt is reset exactly as in
// StartLevel.
func (s *Store) StartLevelWithQuestions(ctx context.Context, levelID int, qs []farmquest.Question) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	crop, ok := s.selectedCropLocked()
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := s.guardLevel(crop, levelID); err != nil {
		return err
	}

	s.begin()
	if len(qs) == 0 {
		return s.fail(KindFetchFailed, "Invalid question set", errNoQuestions)
	}
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			return s.fail(KindFetchFailed, "Invalid question set", err)
		}
	}
	return s.startAttempt(ctx, crop, levelID, append([]farmquest.Question(nil), qs...))
}

func (s *Store) selectedCropLocked() (farmquest.CropType, bool) {
	if s.session == nil || s.session.SelectedCrop == nil {
		return "", false
	}
	return *s.session.SelectedCrop, true
}

func (s *Store) guardLevel(crop farmquest.CropType, levelID int) error {
	if !s.lockGuard {
		return nil
	}
	s.mu.RLock()
	lp, ok := s.session.CropProgress[crop].LevelsProgress[levelID]
	s.mu.RUnlock()
	if ok && lp.Status != farmquest.LevelLocked {
		return nil
	}
	s.mu.Lock()
	s.lastErr = &Error{Kind: KindLevelLocked, Message: "Level is locked"}
	err := s.lastErr
	s.mu.Unlock()
	s.logger.Warn("refusing to start locked level", "crop", string(crop), "level", levelID)
	return err
}

// startAttempt installs qs as the current attempt and records levelID as the
// session's current level. The attempt stays playable if persisting fails.
func (s *Store) startAttempt(ctx context.Context, crop farmquest.CropType, levelID int, qs []farmquest.Question) error {
	s.mu.Lock()
	s.resetAttemptLocked()
	s.currentQuestions = qs
	level := levelID
	s.session.CurrentLevel = &level
	snapshot := s.session.Clone()
	s.mu.Unlock()

	s.logger.Debug("level started", "crop", string(crop), "level", levelID, "questions", len(qs))
	s.notifier.Notify(Event{Type: EventLevelStarted, Crop: crop, LevelID: levelID})

	if err := s.repo.Save(ctx, snapshot); err != nil {
		return s.fail(KindPersistenceFailed, "Failed to save progress", err)
	}
	s.done()
	return nil
}

// SelectAnswer records a tentative choice. Once the answer has been
// submitted the choice is locked.
func (s *Store) SelectAnswer(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.showFeedback {
		return
	}
	if s.currentQuestionIndex >= len(s.currentQuestions) {
		return
	}
	if index < 0 || index >= len(s.currentQuestions[s.currentQuestionIndex].Options) {
		return
	}
	s.selectedAnswerIndex = &index
}

// SubmitAnswer grades the selected option, appends it to the attempt log and
// reveals feedback. It reports false when there was nothing to submit.
func (s *Store) SubmitAnswer() (farmquest.Answer, bool) {
	s.mu.Lock()
	if s.selectedAnswerIndex == nil || s.showFeedback || s.currentQuestionIndex >= len(s.currentQuestions) {
		s.mu.Unlock()
		return farmquest.Answer{}, false
	}

	q := s.currentQuestions[s.currentQuestionIndex]
	a := farmquest.Answer{
		QuestionID:          q.ID,
		SelectedAnswerIndex: *s.selectedAnswerIndex,
		IsCorrect:           *s.selectedAnswerIndex == q.CorrectAnswerIndex,
		// No timer yet.
		TimeSpentSeconds: 0,
	}
	s.answers = append(s.answers, a)
	s.showFeedback = true
	var crop farmquest.CropType
	levelID := 0
	if s.session != nil {
		if c, ok := s.selectedCropLocked(); ok {
			crop = c
		}
		if s.session.CurrentLevel != nil {
			levelID = *s.session.CurrentLevel
		}
	}
	s.mu.Unlock()

	s.notifier.Notify(Event{Type: EventAnswerSubmitted, Crop: crop, LevelID: levelID, IsCorrect: a.IsCorrect})
	return a, true
}

// NextQuestion moves to the following question. On the last question it
// does nothing and reports false.
func (s *Store) NextQuestion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentQuestionIndex >= len(s.currentQuestions)-1 {
		return false
	}
	s.currentQuestionIndex++
	s.selectedAnswerIndex = nil
	s.showFeedback = false
	return true
}

// FinishLevel scores the attempt, decides the level's new status, merges it
// into persistence and reloads the session from storage.
//
// The failure tolerance only applies while the level has never been
// completed; replays of a completed level always pass.
func (s *Store) FinishLevel(ctx context.Context) (farmquest.LevelProgress, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	crop, ok := s.selectedCropLocked()
	if !ok || s.session.CurrentLevel == nil {
		s.mu.RUnlock()
		return farmquest.LevelProgress{}, nil
	}
	levelID := *s.session.CurrentLevel
	prior, hadPrior := s.session.CropProgress[crop].LevelsProgress[levelID]
	answers := append([]farmquest.Answer(nil), s.answers...)
	s.mu.RUnlock()

	progress := scoreAttempt(s.levels, levelID, answers, prior, hadPrior, s.now())

	s.begin()
	if err := s.repo.UpdateLevelProgress(ctx, crop, levelID, progress); err != nil {
		return progress, s.fail(KindPersistenceFailed, "Failed to save level result", err)
	}
	reloaded, err := s.repo.Load(ctx)
	if err != nil {
		return progress, s.fail(KindLoadFailed, "Failed to reload session", err)
	}
	if reloaded == nil {
		return progress, s.fail(KindPersistenceFailed, "Failed to save level result", errors.New("session missing after update"))
	}

	s.mu.Lock()
	s.session = reloaded
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("level finished",
		"crop", string(crop),
		"level", levelID,
		"status", string(progress.Status),
		"score", progress.Score,
		"correct", progress.CorrectAnswers,
		"total", progress.TotalQuestions,
	)
	s.notifier.Notify(Event{Type: EventLevelFinished, Crop: crop, LevelID: levelID, Status: progress.Status, Score: progress.Score})
	return progress, nil
}

func scoreAttempt(levels []farmquest.Level, levelID int, answers []farmquest.Answer, prior farmquest.LevelProgress, hadPrior bool, now time.Time) farmquest.LevelProgress {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	incorrect := len(answers) - correct

	firstAttempt := !hadPrior || prior.Status != farmquest.LevelCompleted
	status := farmquest.LevelCompleted
	if firstAttempt && incorrect > farmquest.MaxFailedFor(levels, levelID) {
		status = farmquest.LevelAvailable
	}

	lp := farmquest.LevelProgress{
		LevelID:        levelID,
		Status:         status,
		Score:          correct * farmquest.PointsPerCorrectAnswer,
		CorrectAnswers: correct,
		TotalQuestions: len(answers),
		Answers:        answers,
	}
	if lp.Answers == nil {
		lp.Answers = []farmquest.Answer{}
	}
	if status == farmquest.LevelCompleted {
		t := now
		lp.CompletedAt = &t
	}
	return lp
}
