// Package i18n holds the global display-language setting.
package i18n

import (
	"sync"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
)

// Setting is the process-wide display language. Subscribers are called
// synchronously, in subscription order, after every change.
type Setting struct {
	mu      sync.RWMutex
	lang    farmquest.Language
	nextID  int
	watches map[int]func(farmquest.Language)
	order   []int
}

func NewSetting(initial farmquest.Language) *Setting {
	return &Setting{lang: initial, watches: make(map[int]func(farmquest.Language))}
}

func (s *Setting) Get() farmquest.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// Set changes the language and notifies subscribers. Setting the current
// value again does nothing.
func (s *Setting) Set(lang farmquest.Language) {
	s.mu.Lock()
	if lang == s.lang {
		s.mu.Unlock()
		return
	}
	s.lang = lang
	fns := make([]func(farmquest.Language), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.watches[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(lang)
	}
}

// Subscribe registers fn for future changes and returns a function that
// removes it.
func (s *Setting) Subscribe(fn func(farmquest.Language)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watches[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watches[id]; !ok {
			return
		}
		delete(s.watches, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}
