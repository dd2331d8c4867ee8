package model

import "errors"

// Common errors used across the application
var (
	// Participant errors
	ErrInvalidName   = errors.New("name is empty or invalid")
	ErrNotRegistered = errors.New("participant is not registered")

	// Entry errors
	ErrEmptyEntry       = errors.New("entry has neither text nor image")
	ErrAlreadySubmitted = errors.New("participant has already submitted an entry")
	ErrEntryNotFound    = errors.New("entry not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)
