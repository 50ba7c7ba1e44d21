package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"
)

// Options configures a Generator.
type Options struct {
	Seed      int64 // 0 picks a time-based seed
	Collision CollisionPolicy
	Logger    *slog.Logger
}

// Generator builds word search puzzles. It owns its random source and must
// not be shared between goroutines.
type Generator struct {
	seed      int64
	rng       *rand.Rand
	collision CollisionPolicy
	logger    *slog.Logger
}

// NewGenerator creates a generator with the given options.
func NewGenerator(opts Options) *Generator {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		collision: opts.Collision,
		logger:    logger,
	}
}

// Seed returns the seed the random source was created with.
func (g *Generator) Seed() int64 { return g.seed }

// Rejection is a word that was not placed, and why.
type Rejection struct {
	Word   string
	Reason error
}

// Puzzle is a finished word search.
type Puzzle struct {
	ID         string
	Size       int
	Grid       *Grid
	Placements []Placement
	Rejections []Rejection
	Seed       int64
	Collision  CollisionPolicy
	CreatedAt  time.Time
}

// Words returns the placed words in placement order.
func (p *Puzzle) Words() []string {
	words := make([]string, len(p.Placements))
	for i, pl := range p.Placements {
		words[i] = pl.Word
	}
	return words
}

// Diagnostics returns one line per rejected word.
func (p *Puzzle) Diagnostics() []string {
	lines := make([]string, 0, len(p.Rejections))
	for _, r := range p.Rejections {
		lines = append(lines, diagnostic(r))
	}
	return lines
}

func diagnostic(r Rejection) string {
	var we *WordError
	if errors.As(r.Reason, &we) {
		return we.Diagnostic()
	}
	return (&WordError{Word: r.Word, Err: r.Reason}).Diagnostic()
}

// Generate places words on a size×size grid in input order and fills the
// remaining cells. Rejected words are reported on the puzzle; only an
// invalid size or a cancelled context make Generate fail. Every reported
// placement still spells its word on the finished grid.
func (g *Generator) Generate(ctx context.Context, size int, words []string) (*Puzzle, error) {
	grid, err := NewGrid(size)
	if err != nil {
		return nil, err
	}

	p := &Puzzle{
		Size:      size,
		Grid:      grid,
		Seed:      g.seed,
		Collision: g.collision,
	}
	for _, word := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pl, err := g.add(grid, word)
		if err != nil {
			g.logger.Info("word rejected", "word", word, "reason", err)
			p.Rejections = append(p.Rejections, Rejection{Word: word, Reason: &WordError{Word: word, Err: err}})
			continue
		}
		g.logger.Debug("word placed", "word", pl.Word, "row", pl.Row, "col", pl.Col, "direction", pl.Direction)
		p.Placements = append(p.Placements, pl)
		if g.collision == CollisionLenient {
			g.dropOverwritten(p)
		}
	}

	fill(grid, g.rng)
	return p, nil
}

// dropOverwritten moves placements that no longer spell their word into the
// rejections.
func (g *Generator) dropOverwritten(p *Puzzle) {
	kept := p.Placements[:0]
	for _, pl := range p.Placements {
		if pl.readsOn(p.Grid) {
			kept = append(kept, pl)
			continue
		}
		g.logger.Info("word overwritten", "word", pl.Word, "row", pl.Row, "col", pl.Col, "direction", pl.Direction)
		p.Rejections = append(p.Rejections, Rejection{
			Word:   pl.Word,
			Reason: &WordError{Word: pl.Word, Err: ErrPlacementOverwritten},
		})
	}
	p.Placements = kept
}

func (g *Generator) add(grid *Grid, word string) (Placement, error) {
	d, err := checkWord(grid, word, g.rng)
	if err != nil {
		return Placement{}, err
	}
	return place(grid, word, d, g.collision, g.rng)
}
