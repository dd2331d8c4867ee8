package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"plain", "Ann", "Ann", nil},
		{"trims whitespace", "  Ann\t", "Ann", nil},
		{"empty", "", "", ErrInvalidName},
		{"whitespace only", " \t\n ", "", ErrInvalidName},
		{"exactly max length", strings.Repeat("a", MaxNameLength), strings.Repeat("a", MaxNameLength), nil},
		{"truncates over max", strings.Repeat("a", MaxNameLength+10), strings.Repeat("a", MaxNameLength), nil},
		{"truncates by runes not bytes", strings.Repeat("ü", MaxNameLength+3), strings.Repeat("ü", MaxNameLength), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeName(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvatar(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		// Values pinned against the web client's charCodeAt hash
		{"Ann", "🦖"},
		{"Ben", "🦘"},
		{"Zoë", "🦚"},
		{"", "🦔"}, // empty name hashes "Guest"
	}

	for _, tt := range tests {
		t.Run("name "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Avatar(tt.name))
		})
	}
}

func TestAvatarIsDeterministic(t *testing.T) {
	for _, name := range []string{"Ann", "Ben", "a much longer participant name"} {
		assert.Equal(t, Avatar(name), Avatar(name))
	}
}

func TestSessionSnapshotIsDetached(t *testing.T) {
	active := EntryID(1)
	session := &Session{
		Code:        "ABC123",
		NextEntryID: 3,
		Participants: []Participant{
			{Name: "Ann"}, {Name: "Ben"},
		},
		Entries: []Entry{
			{ID: 1, AuthorName: "Ann", Text: "first", RevealState: RevealStateHidden},
			{ID: 2, AuthorName: "Ben", Text: "second", RevealState: RevealStateHidden},
		},
		ActiveEntryID: &active,
	}

	snap := session.Snapshot()

	// Newest first
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, EntryID(2), snap.Entries[0].ID)
	assert.Equal(t, EntryID(1), snap.Entries[1].ID)

	// Mutating the session afterwards must not show up in the snapshot
	session.Entries[0].RevealState = RevealStateRevealed
	session.Participants[0].Name = "Mutated"
	*session.ActiveEntryID = 2

	assert.Equal(t, RevealStateHidden, snap.Entries[1].RevealState)
	assert.Equal(t, "Ann", snap.Participants[0].Name)
	assert.Equal(t, EntryID(1), *snap.ActiveEntryID)
}

func TestSessionClone(t *testing.T) {
	session := &Session{
		Code:         "ABC123",
		NextEntryID:  2,
		Participants: []Participant{{Name: "Ann"}},
		Entries:      []Entry{{ID: 1, AuthorName: "Ann", Text: "hi"}},
	}

	clone := session.Clone()
	clone.Participants[0].Name = "Changed"
	clone.Entries = append(clone.Entries, Entry{ID: 2, AuthorName: "Ben"})

	assert.Equal(t, "Ann", session.Participants[0].Name)
	assert.Len(t, session.Entries, 1)
}

func TestSessionLookups(t *testing.T) {
	session := &Session{
		Code:         "ABC123",
		Participants: []Participant{{Name: "Ann"}},
		Entries:      []Entry{{ID: 1, AuthorName: "Ann", Text: "hi"}},
	}

	assert.NotNil(t, session.GetParticipant("Ann"))
	assert.Nil(t, session.GetParticipant("ann"), "GetParticipant is exact-match")
	assert.NotNil(t, session.FindParticipantFold("ANN"))
	assert.Nil(t, session.FindParticipantFold("Ben"))

	assert.NotNil(t, session.GetEntry(1))
	assert.Nil(t, session.GetEntry(2))
	assert.NotNil(t, session.EntryByAuthor("Ann"))
	assert.Nil(t, session.EntryByAuthor("Ben"))
}
