package model

import (
	"strings"
	"time"
)

// SessionCode is a human-readable identifier for joining sessions
type SessionCode string

// Session is the aggregate of all participants and entries for one run of
// the game. Entries are held in submission order; snapshots expose them
// newest first for display.
type Session struct {
	Code          SessionCode
	Participants  []Participant // registration order
	Entries       []Entry       // submission order, IDs strictly increasing
	NextEntryID   EntryID       // next ID to allocate, starts at 1
	ActiveEntryID *EntryID      // nil when no entry is selected for guessing
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone returns a deep copy of the session. Storage backends hand out
// clones so callers never alias stored state.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Participants = make([]Participant, len(s.Participants))
	copy(clone.Participants, s.Participants)
	clone.Entries = make([]Entry, len(s.Entries))
	copy(clone.Entries, s.Entries)
	if s.ActiveEntryID != nil {
		id := *s.ActiveEntryID
		clone.ActiveEntryID = &id
	}
	return &clone
}

// GetParticipant returns the participant with the exact canonical name,
// or nil if not registered
func (s *Session) GetParticipant(name string) *Participant {
	for i := range s.Participants {
		if s.Participants[i].Name == name {
			return &s.Participants[i]
		}
	}
	return nil
}

// FindParticipantFold returns the participant whose name matches under
// case folding, or nil. Used for idempotent re-registration.
func (s *Session) FindParticipantFold(name string) *Participant {
	for i := range s.Participants {
		if strings.EqualFold(s.Participants[i].Name, name) {
			return &s.Participants[i]
		}
	}
	return nil
}

// GetEntry returns the entry with the given ID, or nil if not found
func (s *Session) GetEntry(id EntryID) *Entry {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			return &s.Entries[i]
		}
	}
	return nil
}

// EntryByAuthor returns the entry submitted by the given participant,
// or nil. At most one entry per author is an invariant.
func (s *Session) EntryByAuthor(name string) *Entry {
	for i := range s.Entries {
		if s.Entries[i].AuthorName == name {
			return &s.Entries[i]
		}
	}
	return nil
}
