package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
)

// SessionKey addresses the single session stored per device.
const SessionKey = "farmquest:game-session"

// Repository persists exactly one GameSession at a time.
type Repository interface {
	Save(ctx context.Context, s *farmquest.GameSession) error
	// Load returns nil without error when nothing usable is stored.
	Load(ctx context.Context) (*farmquest.GameSession, error)
	Clear(ctx context.Context) error
	UpdateCropProgress(ctx context.Context, crop farmquest.CropType, progress farmquest.CropProgress) error
	UpdateLevelProgress(ctx context.Context, crop farmquest.CropType, levelID int, progress farmquest.LevelProgress) error
}

type SessionRepository struct {
	kv     KV
	levels []farmquest.Level
	logger *slog.Logger
}

func NewSessionRepository(kv KV, levels []farmquest.Level, logger *slog.Logger) *SessionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRepository{kv: kv, levels: levels, logger: logger}
}

func (r *SessionRepository) Save(ctx context.Context, s *farmquest.GameSession) error {
	data, err := json.Marshal(toSessionDoc(s))
	if err != nil {
		r.logger.Error("encoding session failed", "error", err)
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := r.kv.Set(ctx, SessionKey, string(data)); err != nil {
		r.logger.Error("saving session failed", "error", err)
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context) (*farmquest.GameSession, error) {
	s, err := r.read(ctx)
	if err != nil {
		r.logger.Warn("reading session failed", "error", err)
		return nil, nil
	}
	return s, nil
}

// read is Load without swallowing backend errors. Corrupt documents still
// count as no session.
func (r *SessionRepository) read(ctx context.Context) (*farmquest.GameSession, error) {
	raw, ok, err := r.kv.Get(ctx, SessionKey)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var d sessionDoc
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		r.logger.Warn("discarding unreadable session", "error", err)
		return nil, nil
	}
	s, err := fromSessionDoc(d)
	if err != nil {
		r.logger.Warn("discarding invalid session", "error", err)
		return nil, nil
	}
	s.EnsureCrops(r.levels)
	return s, nil
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.kv.Remove(ctx, SessionKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func (r *SessionRepository) UpdateCropProgress(ctx context.Context, crop farmquest.CropType, progress farmquest.CropProgress) error {
	s, err := r.read(ctx)
	if err != nil || s == nil {
		return err
	}
	s.CropProgress[crop] = progress
	return r.Save(ctx, s)
}

// UpdateLevelProgress merges a caller-computed level result into crop's
// progress, resums the crop total and, for a completed level, makes sure the
// next level is at least available.
func (r *SessionRepository) UpdateLevelProgress(ctx context.Context, crop farmquest.CropType, levelID int, progress farmquest.LevelProgress) error {
	s, err := r.read(ctx)
	if err != nil || s == nil {
		return err
	}

	cp, ok := s.CropProgress[crop]
	if !ok || cp.LevelsProgress == nil {
		cp = farmquest.NewCropProgress(crop, r.levels)
	}
	cp.LevelsProgress[levelID] = progress
	cp.RecomputeTotal()

	if progress.Status == farmquest.LevelCompleted {
		next := levelID + 1
		if _, defined := farmquest.LevelByID(r.levels, next); defined {
			np, exists := cp.LevelsProgress[next]
			switch {
			case !exists:
				cp.LevelsProgress[next] = farmquest.LevelProgress{
					LevelID: next,
					Status:  farmquest.LevelAvailable,
					Answers: []farmquest.Answer{},
				}
			case np.Status == farmquest.LevelLocked:
				np.Status = farmquest.LevelAvailable
				cp.LevelsProgress[next] = np
			}
			if next > cp.CurrentLevel {
				cp.CurrentLevel = next
			}
		}
	}

	s.CropProgress[crop] = cp
	return r.Save(ctx, s)
}
