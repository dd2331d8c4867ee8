package request

// RegisterRequest is the request body for registering a participant
type RegisterRequest struct {
	DisplayName string `json:"display_name"`
}

// SubmitSentenceRequest is the request body for submitting a sentence.
// Exactly one of Text or Image must be non-empty; Image is an opaque
// data URL passed through unmodified.
type SubmitSentenceRequest struct {
	Author string `json:"author"`
	Text   string `json:"text,omitempty"`
	Image  string `json:"image,omitempty"`
}

// GuessRequest is the request body for guessing a sentence's author
type GuessRequest struct {
	Guesser string `json:"guesser"`
	Guess   string `json:"guess"`
}
