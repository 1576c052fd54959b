package counselor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/enehealths/support/pkg/pagination"
)

type sessionRepoMem struct {
	mu      sync.RWMutex
	records []*Session
	byID    map[uuid.UUID]*Session
}

// NewSessionRepoMem returns an empty in-memory session store.
func NewSessionRepoMem() SessionRepository {
	return &sessionRepoMem{byID: make(map[uuid.UUID]*Session)}
}

// cloneSession copies the transcript. The thought log is internally
// synchronized and stays shared across copies.
func cloneSession(s *Session) *Session {
	out := *s
	out.Messages = append([]Message(nil), s.Messages...)
	return &out
}

func (r *sessionRepoMem) Create(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = uuid.New()
	stored := cloneSession(s)
	r.records = append(r.records, stored)
	r.byID[stored.ID] = stored
	return nil
}

func (r *sessionRepoMem) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return cloneSession(s), nil
}

func (r *sessionRepoMem) Update(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[s.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, s.ID)
	}
	*existing = *cloneSession(s)
	return nil
}

func (r *sessionRepoMem) List(_ context.Context, limit, offset int) ([]*Session, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.records)
	start, end := pagination.Bounds(total, limit, offset)
	out := make([]*Session, 0, end-start)
	for _, s := range r.records[start:end] {
		out = append(out, cloneSession(s))
	}
	return out, total, nil
}
