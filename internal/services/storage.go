package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/evergarden-code/vova/pkg/session"
)

// Storage persists session snapshots so a front end can resume a visit
// across reloads.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session snapshot operations
	SaveSession(ctx context.Context, id uuid.UUID, s *session.Session) error
	LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
