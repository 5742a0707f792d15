package lead

import (
	"sync"
	"time"
)

// FormStore keeps open form sessions in memory, keyed by form id.
// Sessions are transient: they vanish on process restart and after
// successful submission.
type FormStore struct {
	mu    sync.RWMutex
	forms map[string]*Form
}

func NewFormStore() *FormStore {
	return &FormStore{forms: make(map[string]*Form)}
}

func (s *FormStore) Open() *Form {
	frm := NewForm()
	s.mu.Lock()
	s.forms[frm.ID()] = frm
	s.mu.Unlock()
	return frm
}

func (s *FormStore) Get(id string) (*Form, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	frm, ok := s.forms[id]
	return frm, ok
}

func (s *FormStore) Remove(id string) {
	s.mu.Lock()
	delete(s.forms, id)
	s.mu.Unlock()
}

func (s *FormStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms)
}

// Prune drops sessions opened more than maxAge ago along with closed ones.
func (s *FormStore) Prune(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()

	var pruned int
	for id, frm := range s.forms {
		frm.mu.Lock()
		stale := frm.closed || frm.createdAt.Before(cutoff)
		frm.mu.Unlock()
		if stale {
			delete(s.forms, id)
			pruned++
		}
	}
	return pruned
}
