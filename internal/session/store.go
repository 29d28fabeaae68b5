// Package session implements the game-session state machine: session
// lifecycle, level attempts, scoring and level unlocks.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/persistence"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/questions"
)

// DefaultPlayerName is used when a player joins a crop without a name.
const DefaultPlayerName = "Explorer"

// Store owns one in-memory GameSession plus the state of the attempt being
// played. Actions are serialised by opMu, which is held across I/O; mu only
// guards fields so readers can observe IsLoading while an action runs.
type Store struct {
	repo      persistence.Repository
	questions questions.Source
	levels    []farmquest.Level
	logger    *slog.Logger
	notifier  Notifier
	now       func() time.Time
	newID     func() string
	lockGuard bool

	opMu sync.Mutex
	mu   sync.RWMutex

	session              *farmquest.GameSession
	currentQuestions     []farmquest.Question
	currentQuestionIndex int
	selectedAnswerIndex  *int
	showFeedback         bool
	answers              []farmquest.Answer
	language             farmquest.Language
	loading              bool
	lastErr              *Error
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.logger = l } }

func WithNotifier(n Notifier) Option { return func(s *Store) { s.notifier = n } }

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithIDGenerator(fn func() string) Option { return func(s *Store) { s.newID = fn } }

func WithLevels(levels []farmquest.Level) Option { return func(s *Store) { s.levels = levels } }

func WithLanguage(lang farmquest.Language) Option { return func(s *Store) { s.language = lang } }

// WithLockGuard controls whether StartLevel refuses locked levels. It is on
// by default.
func WithLockGuard(on bool) Option { return func(s *Store) { s.lockGuard = on } }

func New(repo persistence.Repository, source questions.Source, opts ...Option) *Store {
	s := &Store{
		repo:      repo,
		questions: source,
		levels:    farmquest.Levels(),
		logger:    slog.Default(),
		notifier:  nopNotifier{},
		now:       time.Now,
		newID:     uuid.NewString,
		lockGuard: true,
		language:  farmquest.DefaultLanguage,
		answers:   []farmquest.Answer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin marks an I/O action as in flight and clears the previous error.
func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Store) done() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) fail(kind ErrorKind, msg string, err error) error {
	e := &Error{Kind: kind, Message: msg, Err: err}
	s.logger.Error(msg, "kind", string(kind), "error", err)
	s.mu.Lock()
	s.loading = false
	s.lastErr = e
	s.mu.Unlock()
	return e
}

func (s *Store) resetAttemptLocked() {
	s.currentQuestions = nil
	s.currentQuestionIndex = 0
	s.selectedAnswerIndex = nil
	s.showFeedback = false
	s.answers = []farmquest.Answer{}
}

func (s *Store) InitializeSession(ctx context.Context, playerName string, crop farmquest.CropType) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.begin()
	if err := s.initialize(ctx, playerName, crop); err != nil {
		return err
	}
	s.done()
	return nil
}

func (s *Store) initialize(ctx context.Context, playerName string, crop farmquest.CropType) error {
	now := s.now()
	player := farmquest.Player{ID: s.newID(), Name: strings.TrimSpace(playerName), CreatedAt: now}
	sess := farmquest.NewGameSession(player, crop, s.levels, now)

	if err := s.repo.Save(ctx, sess); err != nil {
		return s.fail(KindInitializationFailed, "Failed to initialize session", err)
	}

	s.mu.Lock()
	s.session = sess
	s.resetAttemptLocked()
	s.mu.Unlock()

	s.logger.Info("session initialized", "player_id", player.ID, "crop", string(crop))
	s.notifier.Notify(Event{Type: EventSessionInitialized, Crop: crop})
	return nil
}

// InitializeOrContinueSession switches an existing persisted session to crop,
// keeping the player's identity, or starts a new one when none exists.
func (s *Store) InitializeOrContinueSession(ctx context.Context, crop farmquest.CropType, playerName string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.begin()
	existing, err := s.repo.Load(ctx)
	if err != nil {
		return s.fail(KindLoadFailed, "Failed to load session", err)
	}

	if existing == nil {
		if strings.TrimSpace(playerName) == "" {
			playerName = DefaultPlayerName
		}
		if err := s.initialize(ctx, playerName, crop); err != nil {
			return err
		}
		s.done()
		return nil
	}

	existing.EnsureCrops(s.levels)
	level := existing.CropProgress[crop].CurrentLevel
	if level < 1 {
		level = 1
	}
	existing.SelectedCrop = &crop
	existing.CurrentLevel = &level

	if err := s.repo.Save(ctx, existing); err != nil {
		return s.fail(KindInitializationFailed, "Failed to continue session", err)
	}

	s.mu.Lock()
	s.session = existing
	s.loading = false
	s.mu.Unlock()

	s.logger.Info("session continued", "player_id", existing.PlayerID, "crop", string(crop), "level", level)
	s.notifier.Notify(Event{Type: EventCropSelected, Crop: crop, LevelID: level})
	return nil
}

// LoadSession reads the persisted session into memory. Having nothing
// stored is not an error: the session is left nil.
func (s *Store) LoadSession(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.begin()
	sess, err := s.repo.Load(ctx)
	if err != nil {
		return s.fail(KindLoadFailed, "Failed to load session", err)
	}

	s.mu.Lock()
	s.session = sess
	s.loading = false
	s.mu.Unlock()

	if sess != nil {
		s.notifier.Notify(Event{Type: EventSessionLoaded})
	}
	return nil
}

// SelectCrop switches the selected crop and restarts at level 1. Without a
// session it does nothing.
func (s *Store) SelectCrop(ctx context.Context, crop farmquest.CropType) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	current := s.session.Clone()
	s.mu.RUnlock()
	if current == nil {
		return nil
	}

	s.begin()
	first := 1
	current.SelectedCrop = &crop
	current.CurrentLevel = &first

	if err := s.repo.Save(ctx, current); err != nil {
		return s.fail(KindPersistenceFailed, "Failed to save crop selection", err)
	}

	s.mu.Lock()
	s.session = current
	s.loading = false
	s.mu.Unlock()

	s.notifier.Notify(Event{Type: EventCropSelected, Crop: crop, LevelID: first})
	return nil
}

// ClearSession erases the persisted session and resets every in-memory field.
// In-memory state is reset even when the backend fails to erase.
func (s *Store) ClearSession(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.begin()
	err := s.repo.Clear(ctx)

	s.mu.Lock()
	s.session = nil
	s.resetAttemptLocked()
	s.mu.Unlock()

	if err != nil {
		return s.fail(KindPersistenceFailed, "Failed to clear session", err)
	}
	s.done()
	s.notifier.Notify(Event{Type: EventSessionCleared})
	return nil
}

// SetLanguage changes the language used by later StartLevel calls. Questions
// already loaded are kept as they are.
func (s *Store) SetLanguage(lang farmquest.Language) {
	s.mu.Lock()
	changed := s.language != lang
	s.language = lang
	s.mu.Unlock()

	if changed {
		s.notifier.Notify(Event{Type: EventLanguageChanged, Language: lang})
	}
}

func (s *Store) Language() farmquest.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}
