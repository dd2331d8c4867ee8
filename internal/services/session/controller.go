package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/guesswho-go/internal/dependencies/clock"
	"github.com/mcoot/guesswho-go/internal/dependencies/random"
	"github.com/mcoot/guesswho-go/internal/model"
	"github.com/mcoot/guesswho-go/internal/services/registry"
	"github.com/mcoot/guesswho-go/internal/storage"
)

const (
	// SessionCodeLength is the length of generated session codes
	SessionCodeLength = 6
	// SessionCodeAlphabet is the characters used in session codes (avoid confusing chars)
	SessionCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Notifier receives the fresh snapshot after every accepted mutation.
// All connected clients get the same snapshot; any anonymity is a client
// decision, not a coordinator guarantee.
type Notifier interface {
	SessionUpdated(ctx context.Context, snapshot *model.Snapshot)
}

// Controller is the authoritative session coordinator. It owns all
// mutation of session state and serializes mutations per session: one
// in flight at a time, so entry IDs are gapless and strictly increasing
// and the at-most-one-entry-per-participant invariant holds under
// concurrent submissions.
type Controller struct {
	storage  storage.Storage
	registry *registry.Service
	clock    clock.Clock
	random   random.Random
	notifier Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[model.SessionCode]*sync.Mutex
}

// NewController creates a new session Controller.
// notifier may be nil, in which case mutations are not broadcast.
func NewController(
	storage storage.Storage,
	registry *registry.Service,
	clock clock.Clock,
	random random.Random,
	notifier Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		registry: registry,
		clock:    clock,
		random:   random,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "session")),
		locks:    make(map[model.SessionCode]*sync.Mutex),
	}
}

// lockSession acquires the serialization point for a session and returns
// the unlock function. Locks are never removed; session counts are small.
func (c *Controller) lockSession(code model.SessionCode) func() {
	c.mu.Lock()
	l, ok := c.locks[code]
	if !ok {
		l = &sync.Mutex{}
		c.locks[code] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// notify broadcasts the snapshot of the session after a mutation
func (c *Controller) notify(ctx context.Context, session *model.Session) {
	if c.notifier == nil {
		return
	}
	c.notifier.SessionUpdated(ctx, session.Snapshot())
}

// CreateSession creates a new empty session with a unique code
func (c *Controller) CreateSession(ctx context.Context) (*model.Session, error) {
	now := c.clock.Now()

	// Generate unique session code
	var code model.SessionCode
	for {
		code = model.SessionCode(c.random.String(SessionCodeLength, SessionCodeAlphabet))
		exists, err := c.storage.SessionExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	session := &model.Session{
		Code:         code,
		Participants: []model.Participant{},
		Entries:      []model.Entry{},
		NextEntryID:  1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session created", slog.String("session", string(code)))
	return session, nil
}

// GetSession retrieves a session by code
func (c *Controller) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	return c.storage.GetSession(ctx, code)
}

// ListSessions returns the codes of all known sessions
func (c *Controller) ListSessions(ctx context.Context) ([]model.SessionCode, error) {
	return c.storage.ListSessionCodes(ctx)
}

// Snapshot returns the current authoritative view of a session
func (c *Controller) Snapshot(ctx context.Context, code model.SessionCode) (*model.Snapshot, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}
	return session.Snapshot(), nil
}

// Register registers a display name in the session. Idempotent by name:
// an existing name is returned unchanged with isNew false. A snapshot is
// broadcast only when the name is new.
func (c *Controller) Register(ctx context.Context, code model.SessionCode, rawName string) (canonicalName string, isNew bool, err error) {
	unlock := c.lockSession(code)
	defer unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return "", false, err
	}

	name, isNew, err := c.registry.Register(session, rawName)
	if err != nil {
		return "", false, err
	}
	if !isNew {
		return name, false, nil
	}

	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return "", false, err
	}

	c.notify(ctx, session)
	return name, true, nil
}

// SubmitEntry creates a new entry for the given registered participant.
// At most one entry per participant; the entry must carry text or an
// image. Broadcasts on success.
func (c *Controller) SubmitEntry(ctx context.Context, code model.SessionCode, authorName, text, image string) (model.EntryID, error) {
	unlock := c.lockSession(code)
	defer unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return 0, err
	}

	if session.GetParticipant(authorName) == nil {
		return 0, model.ErrNotRegistered
	}
	if text == "" && image == "" {
		return 0, model.ErrEmptyEntry
	}
	if session.EntryByAuthor(authorName) != nil {
		return 0, model.ErrAlreadySubmitted
	}

	// Bound text length; the image payload is opaque to the coordinator
	if runes := []rune(text); len(runes) > model.MaxTextLength {
		text = string(runes[:model.MaxTextLength])
	}

	id := session.NextEntryID
	if session.GetEntry(id) != nil {
		// Allocating an existing ID is a programming error, not a user error
		panic(fmt.Sprintf("session %s: duplicate entry id allocation %d", code, id))
	}

	session.Entries = append(session.Entries, model.Entry{
		ID:          id,
		AuthorName:  authorName,
		Text:        text,
		Image:       image,
		RevealState: model.RevealStateHidden,
		SubmittedAt: c.clock.Now(),
	})
	session.NextEntryID = id + 1
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return 0, err
	}

	c.logger.Info("entry submitted",
		slog.String("session", string(code)),
		slog.Int64("entry_id", int64(id)),
		slog.Bool("has_image", image != ""))

	c.notify(ctx, session)
	return id, nil
}

// SelectActive marks an entry as the one currently up for guessing.
// Does not change any entry's reveal state. Broadcasts on success so all
// connected views follow the moderator's selection.
func (c *Controller) SelectActive(ctx context.Context, code model.SessionCode, entryID model.EntryID) error {
	unlock := c.lockSession(code)
	defer unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return err
	}

	if session.GetEntry(entryID) == nil {
		return model.ErrEntryNotFound
	}

	session.ActiveEntryID = &entryID
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	c.notify(ctx, session)
	return nil
}

// GuessAuthor evaluates a guess about an entry's author. A pure query:
// no state is mutated, no guess history is retained, and no snapshot is
// broadcast. Guesses may be repeated without limit.
func (c *Controller) GuessAuthor(ctx context.Context, code model.SessionCode, entryID model.EntryID, guesserName, guessedName string) (bool, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return false, err
	}

	entry := session.GetEntry(entryID)
	if entry == nil {
		return false, model.ErrEntryNotFound
	}
	if session.GetParticipant(guesserName) == nil || session.GetParticipant(guessedName) == nil {
		return false, model.ErrNotRegistered
	}

	return guessedName == entry.AuthorName, nil
}

// RevealAuthor transitions an entry to revealed and returns its author.
// Idempotent in effect: revealing an already-revealed entry returns the
// same author without error. Broadcasts only when state changed.
func (c *Controller) RevealAuthor(ctx context.Context, code model.SessionCode, entryID model.EntryID) (string, error) {
	unlock := c.lockSession(code)
	defer unlock()

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return "", err
	}

	entry := session.GetEntry(entryID)
	if entry == nil {
		return "", model.ErrEntryNotFound
	}
	if entry.RevealState == model.RevealStateRevealed {
		return entry.AuthorName, nil
	}

	entry.RevealState = model.RevealStateRevealed
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return "", err
	}

	c.logger.Info("author revealed",
		slog.String("session", string(code)),
		slog.Int64("entry_id", int64(entryID)),
		slog.String("author", entry.AuthorName))

	c.notify(ctx, session)
	return entry.AuthorName, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context) (*model.Session, error)
	GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error)
	ListSessions(ctx context.Context) ([]model.SessionCode, error)
	Snapshot(ctx context.Context, code model.SessionCode) (*model.Snapshot, error)
	Register(ctx context.Context, code model.SessionCode, rawName string) (string, bool, error)
	SubmitEntry(ctx context.Context, code model.SessionCode, authorName, text, image string) (model.EntryID, error)
	SelectActive(ctx context.Context, code model.SessionCode, entryID model.EntryID) error
	GuessAuthor(ctx context.Context, code model.SessionCode, entryID model.EntryID, guesserName, guessedName string) (bool, error)
	RevealAuthor(ctx context.Context, code model.SessionCode, entryID model.EntryID) (string, error)
}

var _ ControllerInterface = (*Controller)(nil)
