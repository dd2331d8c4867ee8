package registry

import (
	"log/slog"

	"github.com/mcoot/guesswho-go/internal/dependencies/clock"
	"github.com/mcoot/guesswho-go/internal/model"
)

// Service is the single source of truth for valid participant names.
//
// It operates on the session aggregate in memory; loading, locking and
// persisting the session is the coordinator's responsibility.
type Service struct {
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new registry service
func New(clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		clock:  clock,
		logger: logger.With(slog.String("component", "registry")),
	}
}

// Register normalizes rawName and registers it in the session if new.
// Registration is idempotent by name: re-registering an existing name
// (case-insensitively) returns the stored canonical name with isNew false
// and no error, supporting reconnect-with-saved-name.
func (s *Service) Register(session *model.Session, rawName string) (canonicalName string, isNew bool, err error) {
	name, err := model.NormalizeName(rawName)
	if err != nil {
		return "", false, err
	}

	if existing := session.FindParticipantFold(name); existing != nil {
		return existing.Name, false, nil
	}

	session.Participants = append(session.Participants, model.Participant{
		Name:     name,
		JoinedAt: s.clock.Now(),
	})
	s.logger.Info("participant registered",
		slog.String("session", string(session.Code)),
		slog.String("name", name))
	return name, true, nil
}
