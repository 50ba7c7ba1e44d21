package main

import (
	"errors"
	"fmt"
)

// Per-word rejection reasons. None of them stops the generation of a puzzle.
var (
	ErrWordTooLong        = errors.New("word too long")
	ErrInvalidCharacters  = errors.New("word contains non-alphabetic characters")
	ErrNoSpaceAvailable   = errors.New("no space available")
	ErrPlacementExhausted = errors.New("placement exhausted")

	// ErrPlacementOverwritten marks a word placed earlier whose letters were
	// later replaced by a lenient placement.
	ErrPlacementOverwritten = errors.New("placement overwritten")
)

// ErrInvalidSize is returned when a board cannot be built for the requested size.
var ErrInvalidSize = errors.New("board size must be at least 1")

// WordError ties a rejection reason to the word that caused it.
type WordError struct {
	Word string
	Err  error
}

func (e *WordError) Error() string {
	return fmt.Sprintf("%s: %v", e.Word, e.Err)
}

func (e *WordError) Unwrap() error { return e.Err }

// Diagnostic returns the human-readable line shown to the player.
func (e *WordError) Diagnostic() string {
	switch {
	case errors.Is(e.Err, ErrWordTooLong):
		return e.Word + " is too long for this word search."
	case errors.Is(e.Err, ErrInvalidCharacters):
		return e.Word + " contains non-alphabetic characters."
	case errors.Is(e.Err, ErrNoSpaceAvailable):
		return e.Word + " does not fit the remaining space."
	case errors.Is(e.Err, ErrPlacementExhausted):
		return e.Word + " could not be placed."
	case errors.Is(e.Err, ErrPlacementOverwritten):
		return e.Word + " was overwritten by a later word."
	}
	return e.Error()
}

// reasonCode is the stable identifier of a rejection reason used by the API.
func reasonCode(err error) string {
	switch {
	case errors.Is(err, ErrWordTooLong):
		return "word_too_long"
	case errors.Is(err, ErrInvalidCharacters):
		return "invalid_characters"
	case errors.Is(err, ErrNoSpaceAvailable):
		return "no_space_available"
	case errors.Is(err, ErrPlacementExhausted):
		return "placement_exhausted"
	case errors.Is(err, ErrPlacementOverwritten):
		return "placement_overwritten"
	}
	return "unknown"
}
