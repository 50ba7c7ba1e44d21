package main

import (
	"fmt"
	"io"
	"strings"
)

// Blank marks a cell no word or filler letter has been written to yet.
const Blank = '.'

// Grid is the square board of a word search. Size never changes once built.
type Grid struct {
	Size  int
	Cells [][]rune // [row][col]
}

// NewGrid returns a size×size grid where every cell is Blank.
func NewGrid(size int) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	cells := make([][]rune, size)
	for r := range cells {
		cells[r] = make([]rune, size)
		for c := range cells[r] {
			cells[r][c] = Blank
		}
	}
	return &Grid{Size: size, Cells: cells}, nil
}

type axis int

const (
	axisRow axis = iota
	axisColumn
)

// hasBlankRun reports whether any row (or column) holds at least n
// contiguous blank cells.
func (g *Grid) hasBlankRun(n int, ax axis) bool {
	for i := 0; i < g.Size; i++ {
		run := 0
		for j := 0; j < g.Size; j++ {
			cell := g.Cells[i][j]
			if ax == axisColumn {
				cell = g.Cells[j][i]
			}
			if cell != Blank {
				run = 0
				continue
			}
			run++
			if run >= n {
				return true
			}
		}
	}
	return false
}

// Cell is a (row, col) coordinate on the grid.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// span returns the n cells a word would cover from (row, col) in direction d,
// in letter order. ok is false when the span leaves the grid.
func (g *Grid) span(row, col int, d Direction, n int) (cells []Cell, ok bool) {
	dr, dc := d.delta()
	endRow, endCol := row+dr*(n-1), col+dc*(n-1)
	if !g.inBounds(row, col) || !g.inBounds(endRow, endCol) {
		return nil, false
	}
	cells = make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{Row: row + dr*i, Col: col + dc*i}
	}
	return cells, true
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.Size && col >= 0 && col < g.Size
}

func (g *Grid) at(c Cell) rune { return g.Cells[c.Row][c.Col] }

// Blanks counts the cells still holding Blank.
func (g *Grid) Blanks() int {
	n := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			if cell == Blank {
				n++
			}
		}
	}
	return n
}

// Complete reports whether every cell holds a letter.
func (g *Grid) Complete() bool { return g.Blanks() == 0 }

// Rows returns the grid as rows of single-character cells.
func (g *Grid) Rows() [][]string {
	rows := make([][]string, g.Size)
	for r, row := range g.Cells {
		rows[r] = make([]string, len(row))
		for c, cell := range row {
			rows[r][c] = string(cell)
		}
	}
	return rows
}

// Render writes one line per row, cells separated by a space.
func (g *Grid) Render(w io.Writer) error {
	for _, row := range g.Rows() {
		if _, err := fmt.Fprintln(w, strings.Join(row, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grid) String() string {
	var b strings.Builder
	g.Render(&b)
	return b.String()
}
