package main

import "math/rand"

// fill replaces every blank cell with a random uppercase letter A-Z.
func fill(g *Grid, rng *rand.Rand) {
	for r, row := range g.Cells {
		for c, cell := range row {
			if cell == Blank {
				g.Cells[r][c] = 'A' + rune(rng.Intn(26))
			}
		}
	}
}
