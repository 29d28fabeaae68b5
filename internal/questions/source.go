// Package questions supplies quiz questions for a crop, level and language.
package questions

import (
	"context"
	"time"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
)

// Source looks up reference questions. The language argument is accepted for
// every lookup but the bundled datasets do not vary by language yet.
type Source interface {
	ForLevel(ctx context.Context, crop farmquest.CropType, levelID int, lang farmquest.Language) ([]farmquest.Question, error)
	ForCrop(ctx context.Context, crop farmquest.CropType) ([]farmquest.Question, error)
	ByID(ctx context.Context, id string) (farmquest.Question, bool, error)
}

type MemorySource struct {
	questions []farmquest.Question
	latency   time.Duration
}

type Option func(*MemorySource)

// WithLatency delays every lookup to emulate a network round trip.
func WithLatency(d time.Duration) Option {
	return func(s *MemorySource) { s.latency = d }
}

func NewMemorySource(qs []farmquest.Question, opts ...Option) *MemorySource {
	s := &MemorySource{questions: append([]farmquest.Question(nil), qs...)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemorySource) ForLevel(ctx context.Context, crop farmquest.CropType, levelID int, _ farmquest.Language) ([]farmquest.Question, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	var out []farmquest.Question
	for _, q := range s.questions {
		if q.CropType == crop && q.LevelID == levelID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *MemorySource) ForCrop(ctx context.Context, crop farmquest.CropType) ([]farmquest.Question, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	var out []farmquest.Question
	for _, q := range s.questions {
		if q.CropType == crop {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *MemorySource) ByID(ctx context.Context, id string) (farmquest.Question, bool, error) {
	if err := s.wait(ctx); err != nil {
		return farmquest.Question{}, false, err
	}
	for _, q := range s.questions {
		if q.ID == id {
			return q, true, nil
		}
	}
	return farmquest.Question{}, false, nil
}

func (s *MemorySource) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
