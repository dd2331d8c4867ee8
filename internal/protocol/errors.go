package protocol

import (
	"errors"

	"github.com/mcoot/guesswho-go/internal/model"
)

// CodeForError maps a coordinator error to its wire error code
func CodeForError(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidName):
		return CodeInvalidName
	case errors.Is(err, model.ErrNotRegistered):
		return CodeNotRegistered
	case errors.Is(err, model.ErrEmptyEntry):
		return CodeEmptyEntry
	case errors.Is(err, model.ErrAlreadySubmitted):
		return CodeAlreadySubmitted
	case errors.Is(err, model.ErrEntryNotFound):
		return CodeNotFound
	case errors.Is(err, model.ErrSessionNotFound):
		return CodeSessionNotFound
	default:
		return CodeInternalError
	}
}
