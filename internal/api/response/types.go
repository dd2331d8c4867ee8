package response

import (
	"time"

	"github.com/mcoot/guesswho-go/internal/model"
)

// Participant represents a registered participant in API responses
type Participant struct {
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	JoinedAt time.Time `json:"joined_at"`
}

// ParticipantFromModel converts a model.Participant to a response Participant
func ParticipantFromModel(p model.Participant) Participant {
	return Participant{
		Name:     p.Name,
		Avatar:   model.Avatar(p.Name),
		JoinedAt: p.JoinedAt,
	}
}

// Sentence represents a submitted sentence in API responses.
// Authorship is always present; clients hide it until reveal.
type Sentence struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Image    string `json:"image,omitempty"`
	Author   string `json:"author"`
	Avatar   string `json:"avatar"`
	Revealed bool   `json:"revealed"`
}

// SentenceFromModel converts a model.Entry to a response Sentence
func SentenceFromModel(e model.Entry) Sentence {
	return Sentence{
		ID:       int64(e.ID),
		Text:     e.Text,
		Image:    e.Image,
		Author:   e.AuthorName,
		Avatar:   model.Avatar(e.AuthorName),
		Revealed: e.RevealState == model.RevealStateRevealed,
	}
}

// Snapshot is the full session view, sentences newest first
type Snapshot struct {
	Code             string        `json:"code"`
	Participants     []Participant `json:"participants"`
	Sentences        []Sentence    `json:"sentences"`
	ActiveSentenceID *int64        `json:"active_sentence_id"`
}

// SnapshotFromModel converts model.Snapshot
func SnapshotFromModel(s *model.Snapshot) Snapshot {
	participants := make([]Participant, len(s.Participants))
	for i, p := range s.Participants {
		participants[i] = ParticipantFromModel(p)
	}

	sentences := make([]Sentence, len(s.Entries))
	for i, e := range s.Entries {
		sentences[i] = SentenceFromModel(e)
	}

	var active *int64
	if s.ActiveEntryID != nil {
		id := int64(*s.ActiveEntryID)
		active = &id
	}

	return Snapshot{
		Code:             string(s.Code),
		Participants:     participants,
		Sentences:        sentences,
		ActiveSentenceID: active,
	}
}

// Session is the summary returned when a session is created
type Session struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionFromModel converts model.Session to a summary
func SessionFromModel(s *model.Session) Session {
	return Session{
		Code:      string(s.Code),
		CreatedAt: s.CreatedAt,
	}
}

// SessionList is the response for listing active sessions
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// RegisterResponse is the response after registering a participant
type RegisterResponse struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// SubmitResponse is the response after submitting a sentence
type SubmitResponse struct {
	SentenceID int64 `json:"sentence_id"`
}

// GuessResponse is the result of an authorship guess
type GuessResponse struct {
	SentenceID int64  `json:"sentence_id"`
	Guess      string `json:"guess"`
	Correct    bool   `json:"correct"`
}

// RevealResponse is the response after revealing a sentence's author
type RevealResponse struct {
	SentenceID int64  `json:"sentence_id"`
	Author     string `json:"author"`
}
