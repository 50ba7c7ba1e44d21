package main

import (
	"math/rand"
	"unicode"
	"unicode/utf8"
)

// checkWord decides whether word may be placed on g and, if so, in which
// direction. It never modifies the grid.
func checkWord(g *Grid, word string, rng *rand.Rand) (Direction, error) {
	n := utf8.RuneCountInString(word)
	if n > g.Size {
		return 0, ErrWordTooLong
	}
	if !isAlpha(word) {
		return 0, ErrInvalidCharacters
	}

	rows := g.hasBlankRun(n, axisRow)
	cols := g.hasBlankRun(n, axisColumn)
	switch {
	case rows && cols:
		return allDirections[rng.Intn(len(allDirections))], nil
	case rows:
		return LeftToRight, nil
	case cols:
		if rng.Intn(2) == 0 {
			return Down, nil
		}
		return Up, nil
	}
	return 0, ErrNoSpaceAvailable
}

// isAlpha reports whether word is non-empty and made of letters only.
func isAlpha(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
