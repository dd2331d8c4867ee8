package model

import "unicode/utf16"

// avatarEmojiSet is the fixed emoji set avatars are drawn from.
// The set and the hash below must stay stable: clients derive the same
// avatar locally before the first snapshot arrives.
var avatarEmojiSet = []string{
	"🦄", "🐸", "🐙", "🐼", "🦊", "🐵", "🐯", "🐨", "🐧", "🦖", "🐝", "🦋",
	"🐳", "🐹", "🐮", "🦒", "🦔", "🐲", "🐞", "🦘", "🦩", "🦙", "🦚", "🦜",
}

// Avatar derives a participant's emoji avatar from their name.
// Purely presentational and recomputed on demand, never stored.
//
// The hash is a 31-multiplier rolling hash over the name's UTF-16 code
// units with 32-bit wraparound, matching what web clients compute from
// String.charCodeAt.
func Avatar(name string) string {
	if name == "" {
		name = "Guest"
	}
	var hash int32
	for _, u := range utf16.Encode([]rune(name)) {
		hash = hash*31 + int32(u)
	}
	idx := int64(hash)
	if idx < 0 {
		idx = -idx
	}
	return avatarEmojiSet[idx%int64(len(avatarEmojiSet))]
}
