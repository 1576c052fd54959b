package counselor

import (
	"context"

	"github.com/google/uuid"
)

type SessionRepository interface {
	// Create assigns the session ID before storing.
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Update(ctx context.Context, s *Session) error
	List(ctx context.Context, limit, offset int) ([]*Session, int, error)
}
