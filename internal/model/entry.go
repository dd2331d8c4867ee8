package model

import "time"

// EntryID uniquely identifies a submitted entry within a session.
// IDs are allocated monotonically starting at 1 and never reused.
type EntryID int64

// RevealState represents whether an entry's author has been revealed
type RevealState string

const (
	RevealStateHidden   RevealState = "hidden"   // Initial state
	RevealStateRevealed RevealState = "revealed" // Terminal, no reverse transition
)

const (
	// MaxTextLength is the maximum entry text length in runes
	MaxTextLength = 200
	// MaxImageBytes bounds the opaque image payload accepted at submission
	MaxImageBytes = 10 << 20
)

// Entry is one anonymous text/image submission attributed to exactly one participant.
// Only RevealState ever changes after creation.
type Entry struct {
	ID          EntryID
	AuthorName  string
	Text        string // may be empty when Image is set
	Image       string // opaque payload (data URL from the client), empty when absent
	RevealState RevealState
	SubmittedAt time.Time
}

// HasContent reports whether the entry carries text or an image
func (e *Entry) HasContent() bool {
	return e.Text != "" || e.Image != ""
}
