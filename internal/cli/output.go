package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case SessionList:
		o.printSessionList(v)
	case Snapshot:
		o.printSnapshot(v)
	case RegisterResult:
		o.printRegisterResult(v)
	case SubmitResult:
		o.printSubmitResult(v)
	case GuessResult:
		o.printGuessResult(v)
	case RevealResult:
		o.printRevealResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type (matches API)
type Session struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionList response type
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// Participant response type
type Participant struct {
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	JoinedAt time.Time `json:"joined_at"`
}

// Sentence response type
type Sentence struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Image    string `json:"image,omitempty"`
	Author   string `json:"author"`
	Avatar   string `json:"avatar"`
	Revealed bool   `json:"revealed"`
}

// Snapshot response type
type Snapshot struct {
	Code             string        `json:"code"`
	Participants     []Participant `json:"participants"`
	Sentences        []Sentence    `json:"sentences"`
	ActiveSentenceID *int64        `json:"active_sentence_id"`
}

// RegisterResult response type
type RegisterResult struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// SubmitResult response type
type SubmitResult struct {
	SentenceID int64 `json:"sentence_id"`
}

// GuessResult response type
type GuessResult struct {
	SentenceID int64  `json:"sentence_id"`
	Guess      string `json:"guess"`
	Correct    bool   `json:"correct"`
}

// RevealResult response type
type RevealResult struct {
	SentenceID int64  `json:"sentence_id"`
	Author     string `json:"author"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.Code)
	fmt.Printf("Created: %s\n", s.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printSessionList(l SessionList) {
	fmt.Printf("Sessions (%d):\n", len(l.Sessions))
	for _, code := range l.Sessions {
		fmt.Printf("  - %s\n", code)
	}
}

func (o *Output) printSnapshot(s Snapshot) {
	fmt.Printf("Session: %s\n", s.Code)

	fmt.Printf("Participants (%d):\n", len(s.Participants))
	for _, p := range s.Participants {
		fmt.Printf("  %s %s\n", p.Avatar, p.Name)
	}

	fmt.Printf("Sentences (%d):\n", len(s.Sentences))
	for _, sen := range s.Sentences {
		active := ""
		if s.ActiveSentenceID != nil && *s.ActiveSentenceID == sen.ID {
			active = " [active]"
		}

		author := "???"
		if sen.Revealed {
			author = fmt.Sprintf("%s %s", sen.Avatar, sen.Author)
		}

		body := sen.Text
		if body == "" && sen.Image != "" {
			body = "<image>"
		}
		// Keep one sentence per line for readable lists
		body = strings.ReplaceAll(body, "\n", " ")

		fmt.Printf("  #%d%s %s - %s\n", sen.ID, active, body, author)
	}
}

func (o *Output) printRegisterResult(r RegisterResult) {
	fmt.Printf("Registered: %s %s\n", r.Avatar, r.Name)
}

func (o *Output) printSubmitResult(s SubmitResult) {
	fmt.Printf("Submitted sentence #%d\n", s.SentenceID)
}

func (o *Output) printGuessResult(g GuessResult) {
	if g.Correct {
		fmt.Printf("Correct! #%d was written by %s\n", g.SentenceID, g.Guess)
	} else {
		fmt.Printf("Wrong, #%d was not written by %s\n", g.SentenceID, g.Guess)
	}
}

func (o *Output) printRevealResult(r RevealResult) {
	fmt.Printf("Sentence #%d was written by %s\n", r.SentenceID, r.Author)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
