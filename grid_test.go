package main

import (
	"errors"
	"strings"
	"testing"
)

// gridFromRows builds a grid from equal-length rows, '.' meaning blank.
func gridFromRows(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g, err := NewGrid(len(rows))
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	for r, row := range rows {
		if len([]rune(row)) != len(rows) {
			t.Fatalf("row %d: expected %d cells, got %q", r, len(rows), row)
		}
		copy(g.Cells[r], []rune(row))
	}
	return g
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Cells) != 5 || len(g.Cells[0]) != 5 {
		t.Fatalf("expected 5x5 cells, got %dx%d", len(g.Cells), len(g.Cells[0]))
	}
	if g.Blanks() != 25 {
		t.Fatalf("expected 25 blank cells, got %d", g.Blanks())
	}
	if g.Complete() {
		t.Fatal("fresh grid should not be complete")
	}

	for _, size := range []int{0, -3} {
		if _, err := NewGrid(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size %d: expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestHasBlankRun(t *testing.T) {
	g := gridFromRows(t,
		"..X",
		"X..",
		"...",
	)

	if !g.hasBlankRun(3, axisRow) {
		t.Fatal("last row holds 3 blanks")
	}
	if g.hasBlankRun(4, axisRow) {
		t.Fatal("no row can hold 4 blanks")
	}
	// Columns: ".X.", "...", "X..".
	if !g.hasBlankRun(3, axisColumn) {
		t.Fatal("middle column holds 3 blanks")
	}

	g.Cells[1][1] = 'Y'
	if g.hasBlankRun(3, axisColumn) {
		t.Fatal("no column should hold 3 blanks once the middle is filled")
	}
	if !g.hasBlankRun(2, axisColumn) {
		t.Fatal("last column still ends with 2 blanks")
	}
}

func TestSpanBounds(t *testing.T) {
	g, _ := NewGrid(3)

	tests := []struct {
		name     string
		row, col int
		dir      Direction
		ok       bool
	}{
		{"down fits", 0, 1, Down, true},
		{"down overflows", 1, 1, Down, false},
		{"up fits", 2, 0, Up, true},
		{"up overflows", 1, 0, Up, false},
		{"right fits", 2, 0, LeftToRight, true},
		{"right overflows", 0, 1, LeftToRight, false},
		{"start outside", 3, 0, Down, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, ok := g.span(tt.row, tt.col, tt.dir, 3)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && len(cells) != 3 {
				t.Fatalf("expected 3 cells, got %d", len(cells))
			}
		})
	}

	cells, _ := g.span(2, 1, Up, 3)
	if cells[0] != (Cell{2, 1}) || cells[2] != (Cell{0, 1}) {
		t.Fatalf("up span should climb rows, got %v", cells)
	}
}

func TestRender(t *testing.T) {
	g := gridFromRows(t,
		"AB",
		"CD",
	)
	if got, want := g.String(), "A B\nC D\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	rows := g.Rows()
	if strings.Join(rows[1], "") != "CD" {
		t.Fatalf("expected second row CD, got %v", rows[1])
	}
	if !g.Complete() {
		t.Fatal("grid without blanks should be complete")
	}
}
