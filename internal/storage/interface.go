package storage

import (
	"context"

	"github.com/mcoot/guesswho-go/internal/model"
)

// Storage defines the interface for session persistence.
//
// Implementations must return detached copies: mutating a returned
// session has no effect until it is saved again. Serialization of
// concurrent mutations is the coordinator's job, not the storage's.
type Storage interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error)
	SessionExists(ctx context.Context, code model.SessionCode) (bool, error)
	DeleteSession(ctx context.Context, code model.SessionCode) error
	ListSessionCodes(ctx context.Context) ([]model.SessionCode, error)
}
