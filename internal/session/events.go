package session

import "github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"

type EventType string

const (
	EventSessionInitialized EventType = "session_initialized"
	EventSessionLoaded      EventType = "session_loaded"
	EventSessionCleared     EventType = "session_cleared"
	EventCropSelected       EventType = "crop_selected"
	EventLevelStarted       EventType = "level_started"
	EventAnswerSubmitted    EventType = "answer_submitted"
	EventLevelFinished      EventType = "level_finished"
	EventLanguageChanged    EventType = "language_changed"
)

// Event describes a state change after it has been applied.
type Event struct {
	Type      EventType             `json:"type"`
	Crop      farmquest.CropType    `json:"crop,omitempty"`
	LevelID   int                   `json:"levelId,omitempty"`
	Status    farmquest.LevelStatus `json:"status,omitempty"`
	Score     int                   `json:"score,omitempty"`
	IsCorrect bool                  `json:"isCorrect,omitempty"`
	Language  farmquest.Language    `json:"language,omitempty"`
}

// Notifier receives events. Implementations must not call back into the
// Store synchronously.
type Notifier interface {
	Notify(Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
