package counselor

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Message kinds classify how a reply was produced.
const (
	KindCrisis        = "crisis"
	KindSensitive     = "sensitive"
	KindHallucination = "hallucination"
	KindKnowledge     = "knowledge"
	KindDefault       = "default"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleCounselor = "counselor"
)

type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Kind      string    `json:"kind,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one support conversation with its reasoning trail.
type Session struct {
	ID        uuid.UUID `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Messages  []Message `json:"messages"`

	thoughts *ThoughtLog
}

func NewSession(thoughtCapacity int) *Session {
	return &Session{
		thoughts: NewThoughtLog(thoughtCapacity),
	}
}

func (s *Session) Thoughts() *ThoughtLog { return s.thoughts }
