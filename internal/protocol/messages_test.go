package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/guesswho-go/internal/model"
)

func TestCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"invalid name", model.ErrInvalidName, CodeInvalidName},
		{"not registered", model.ErrNotRegistered, CodeNotRegistered},
		{"empty entry", model.ErrEmptyEntry, CodeEmptyEntry},
		{"already submitted", model.ErrAlreadySubmitted, CodeAlreadySubmitted},
		{"entry not found", model.ErrEntryNotFound, CodeNotFound},
		{"session not found", model.ErrSessionNotFound, CodeSessionNotFound},
		{"anything else", assert.AnError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeForError(tt.err))
		})
	}
}

func TestReplyHelpers(t *testing.T) {
	req := &Request{Type: TypeRegister, Seq: 7}

	ok := OKReply(req)
	assert.Equal(t, TypeRegister, ok.Type)
	assert.Equal(t, int64(7), ok.Seq)
	assert.True(t, ok.OK)

	bad := ErrorReply(req, CodeInvalidName)
	assert.False(t, bad.OK)
	assert.Equal(t, CodeInvalidName, bad.Error)
	assert.Equal(t, int64(7), bad.Seq)
}

func TestStateFromSnapshot(t *testing.T) {
	active := model.EntryID(2)
	snapshot := &model.Snapshot{
		Code: "ABC123",
		Entries: []model.Entry{
			{ID: 2, AuthorName: "Ben", Image: "data:image/png;base64,X", RevealState: model.RevealStateHidden},
			{ID: 1, AuthorName: "Ann", Text: "hi", RevealState: model.RevealStateRevealed},
		},
		Participants: []model.Participant{
			{Name: "Ann"}, {Name: "Ben"},
		},
		ActiveEntryID: &active,
	}

	msg := StateFromSnapshot(snapshot)

	assert.Equal(t, TypeState, msg.Type)
	assert.Equal(t, "ABC123", msg.Session)
	assert.Equal(t, []string{"Ann", "Ben"}, msg.Participants)
	require.Len(t, msg.Sentences, 2)

	assert.Equal(t, model.EntryID(2), msg.Sentences[0].ID)
	assert.False(t, msg.Sentences[0].Revealed)
	assert.Equal(t, "Ben", msg.Sentences[0].AuthorName)
	assert.Equal(t, model.Avatar("Ben"), msg.Sentences[0].Avatar)

	assert.True(t, msg.Sentences[1].Revealed)
	assert.Equal(t, "hi", msg.Sentences[1].Text)
	assert.Empty(t, msg.Sentences[1].Image)

	require.NotNil(t, msg.ActiveSentenceID)
	assert.Equal(t, model.EntryID(2), *msg.ActiveSentenceID)
}

func TestEncodeStateOmitsAbsentImage(t *testing.T) {
	snapshot := &model.Snapshot{
		Code: "ABC123",
		Entries: []model.Entry{
			{ID: 1, AuthorName: "Ann", Text: "hi", RevealState: model.RevealStateHidden},
		},
		Participants: []model.Participant{{Name: "Ann"}},
	}

	data, err := EncodeState(snapshot)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	sentences, ok := decoded["sentences"].([]any)
	require.True(t, ok)
	require.Len(t, sentences, 1)

	sentence := sentences[0].(map[string]any)
	_, hasImage := sentence["image"]
	assert.False(t, hasImage, "absent image must be omitted, not empty")
	// Text is always present, even when empty
	_, hasText := sentence["text"]
	assert.True(t, hasText)

	_, hasActive := decoded["activeSentenceId"]
	assert.False(t, hasActive)
}
