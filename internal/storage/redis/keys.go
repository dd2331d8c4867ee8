package redis

import (
	"fmt"

	"github.com/mcoot/guesswho-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "gwgame"

// sessionKey returns the Redis key for a Session document
func sessionKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, code)
}

// sessionIndexKey returns the Redis key for the SET of known session codes
func sessionIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}
