package main

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// CollisionPolicy decides whether a word may be written over the current
// contents of a span.
type CollisionPolicy int

const (
	// CollisionStrict accepts a span when every letter already in it equals
	// the word's letter at that position. Blank cells are always accepted.
	CollisionStrict CollisionPolicy = iota
	// CollisionLenient accepts a span whose cells all hold the same value, or
	// where at least one cell already holds the word's letter at that
	// position. It may overwrite letters of earlier words.
	CollisionLenient
)

func (p CollisionPolicy) String() string {
	if p == CollisionLenient {
		return "lenient"
	}
	return "strict"
}

// ParseCollisionPolicy maps "strict" and "lenient", in any case, to a
// policy. The empty string selects CollisionStrict.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return CollisionStrict, nil
	case "lenient":
		return CollisionLenient, nil
	}
	return 0, fmt.Errorf("unknown collision policy %q", s)
}

func (p CollisionPolicy) accepts(existing, letters []rune) bool {
	if p == CollisionLenient {
		return uniform(existing) || anyMatch(existing, letters)
	}
	for i, cell := range existing {
		if cell != Blank && cell != letters[i] {
			return false
		}
	}
	return true
}

func uniform(cells []rune) bool {
	for _, c := range cells[1:] {
		if c != cells[0] {
			return false
		}
	}
	return true
}

func anyMatch(existing, letters []rune) bool {
	for i, cell := range existing {
		if cell == letters[i] {
			return true
		}
	}
	return false
}

// Placement records where a word was written.
type Placement struct {
	Word      string    `json:"word"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Direction Direction `json:"direction"`
}

// Cells returns the coordinates the placement covers, in letter order.
func (p Placement) Cells() []Cell {
	dr, dc := p.Direction.delta()
	n := len([]rune(p.Word))
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{Row: p.Row + dr*i, Col: p.Col + dc*i}
	}
	return cells
}

// readsOn reports whether the placement's cells still spell its word.
func (p Placement) readsOn(g *Grid) bool {
	letters := []rune(p.Word)
	for i, c := range p.Cells() {
		if !g.inBounds(c.Row, c.Col) || g.at(c) != letters[i] {
			return false
		}
	}
	return true
}

// End returns the cell holding the last letter.
func (p Placement) End() Cell {
	cells := p.Cells()
	return cells[len(cells)-1]
}

// candidateStarts lists every start cell whose span of n cells in direction d
// stays inside the grid.
func candidateStarts(g *Grid, d Direction, n int) []Cell {
	var starts []Cell
	for r := 0; r < g.Size; r++ {
		for c := 0; c < g.Size; c++ {
			if _, ok := g.span(r, c, d, n); ok {
				starts = append(starts, Cell{Row: r, Col: c})
			}
		}
	}
	return starts
}

// place writes word into g along d at the first acceptable start cell, trying
// candidates in a random order. It returns ErrPlacementExhausted when no
// candidate is accepted; the grid is left untouched in that case.
func place(g *Grid, word string, d Direction, policy CollisionPolicy, rng *rand.Rand) (Placement, error) {
	letters := upperRunes(word)
	starts := candidateStarts(g, d, len(letters))
	rng.Shuffle(len(starts), func(i, j int) { starts[i], starts[j] = starts[j], starts[i] })

	existing := make([]rune, len(letters))
	for _, start := range starts {
		cells, _ := g.span(start.Row, start.Col, d, len(letters))
		for i, c := range cells {
			existing[i] = g.at(c)
		}
		if !policy.accepts(existing, letters) {
			continue
		}
		for i, c := range cells {
			g.Cells[c.Row][c.Col] = letters[i]
		}
		return Placement{Word: string(letters), Row: start.Row, Col: start.Col, Direction: d}, nil
	}
	return Placement{}, ErrPlacementExhausted
}

func upperRunes(word string) []rune {
	letters := []rune(word)
	for i, r := range letters {
		letters[i] = unicode.ToUpper(r)
	}
	return letters
}
