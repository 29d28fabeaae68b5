package session

import "errors"

type ErrorKind string

const (
	KindInitializationFailed ErrorKind = "initialization_failed"
	KindLoadFailed           ErrorKind = "load_failed"
	KindFetchFailed          ErrorKind = "fetch_failed"
	KindPersistenceFailed    ErrorKind = "persistence_failed"
	KindLevelLocked          ErrorKind = "level_locked"
)

// Error is the only error type returned by Store actions. Message is short
// and safe to show to the player.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or "" when err is not a *Error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
