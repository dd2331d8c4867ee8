package model

// Snapshot is the full, consistent view of a session broadcast to every
// connected client after each mutation. It never aliases session state:
// all slices are copies taken while the mutation lock is held.
//
// Authorship is never omitted from the snapshot; hiding it from players
// is a client-side convention, not a coordinator guarantee.
type Snapshot struct {
	Code          SessionCode
	Entries       []Entry // newest first
	Participants  []Participant
	ActiveEntryID *EntryID
}

// Snapshot assembles an immutable view of the session
func (s *Session) Snapshot() *Snapshot {
	entries := make([]Entry, len(s.Entries))
	for i := range s.Entries {
		entries[len(s.Entries)-1-i] = s.Entries[i]
	}

	participants := make([]Participant, len(s.Participants))
	copy(participants, s.Participants)

	var active *EntryID
	if s.ActiveEntryID != nil {
		id := *s.ActiveEntryID
		active = &id
	}

	return &Snapshot{
		Code:          s.Code,
		Entries:       entries,
		Participants:  participants,
		ActiveEntryID: active,
	}
}
