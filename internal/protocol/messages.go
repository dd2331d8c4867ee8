// Package protocol defines the wire contract between clients and the
// session coordinator: discrete request messages with direct replies,
// plus the server-initiated state push sent after each mutation.
package protocol

import (
	"encoding/json"

	"github.com/mcoot/guesswho-go/internal/model"
)

// Message types sent by clients
const (
	TypeRegister       = "register"
	TypeSubmitSentence = "submit_sentence"
	TypeGuessAuthor    = "guess_author"
	TypeRevealAuthor   = "reveal_author"
	TypeSelectSentence = "select_sentence"
)

// TypeState is the server push carrying a full session snapshot
const TypeState = "state"

// Error codes carried in replies
const (
	CodeInvalidName      = "INVALID_NAME"
	CodeNotRegistered    = "NOT_REGISTERED"
	CodeEmptyEntry       = "EMPTY_ENTRY"
	CodeAlreadySubmitted = "ALREADY_SUBMITTED"
	CodeNotFound         = "NOT_FOUND"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeProtocolError    = "PROTOCOL_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Request is the envelope for all client messages. Seq, when provided,
// is echoed on the reply so clients can correlate acknowledgements.
type Request struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq,omitempty"`

	// register
	Name string `json:"name,omitempty"`

	// submit_sentence; the author is inferred from the sending
	// connection's registered name, never from the payload
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`

	// guess_author / reveal_author / select_sentence
	SentenceID model.EntryID `json:"sentenceId,omitempty"`
	GuessName  string        `json:"guessName,omitempty"`
}

// Reply is the direct acknowledgement for a single request
type Reply struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq,omitempty"`
	OK   bool   `json:"ok"`

	// Set when OK is false
	Error string `json:"error,omitempty"`

	// register
	Name string `json:"name,omitempty"`

	// submit_sentence
	SentenceID model.EntryID `json:"sentenceId,omitempty"`

	// guess_author
	Correct *bool `json:"correct,omitempty"`

	// reveal_author
	AuthorName string `json:"authorName,omitempty"`
}

// Sentence is an entry as serialized on the wire
type Sentence struct {
	ID         model.EntryID `json:"id"`
	Text       string        `json:"text"`
	Image      string        `json:"image,omitempty"`
	AuthorName string        `json:"authorName"`
	Avatar     string        `json:"avatar"`
	Revealed   bool          `json:"revealed"`
}

// StateMessage is the snapshot push broadcast to every connected client
type StateMessage struct {
	Type             string         `json:"type"`
	Session          string         `json:"session"`
	Sentences        []Sentence     `json:"sentences"`
	Participants     []string       `json:"participants"`
	ActiveSentenceID *model.EntryID `json:"activeSentenceId,omitempty"`
}

// OKReply builds a success reply for a request
func OKReply(req *Request) Reply {
	return Reply{Type: req.Type, Seq: req.Seq, OK: true}
}

// ErrorReply builds a failure reply for a request
func ErrorReply(req *Request, code string) Reply {
	return Reply{Type: req.Type, Seq: req.Seq, OK: false, Error: code}
}

// StateFromSnapshot converts a coordinator snapshot to its wire form.
// Avatars are derived here, at the boundary, and never persisted.
func StateFromSnapshot(snapshot *model.Snapshot) StateMessage {
	sentences := make([]Sentence, len(snapshot.Entries))
	for i, e := range snapshot.Entries {
		sentences[i] = Sentence{
			ID:         e.ID,
			Text:       e.Text,
			Image:      e.Image,
			AuthorName: e.AuthorName,
			Avatar:     model.Avatar(e.AuthorName),
			Revealed:   e.RevealState == model.RevealStateRevealed,
		}
	}

	participants := make([]string, len(snapshot.Participants))
	for i, p := range snapshot.Participants {
		participants[i] = p.Name
	}

	return StateMessage{
		Type:             TypeState,
		Session:          string(snapshot.Code),
		Sentences:        sentences,
		Participants:     participants,
		ActiveSentenceID: snapshot.ActiveEntryID,
	}
}

// EncodeState marshals a state push
func EncodeState(snapshot *model.Snapshot) ([]byte, error) {
	msg := StateFromSnapshot(snapshot)
	return json.Marshal(msg)
}
