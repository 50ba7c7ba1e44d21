package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// runFile generates the puzzle described by cfg.PuzzlePath. Values set in
// the file take precedence over the matching flags.
func runFile(ctx context.Context, cfg *Config, out io.Writer, logger *slog.Logger) error {
	pf, err := LoadPuzzleFile(cfg.PuzzlePath)
	if err != nil {
		return err
	}

	size := firstNonZero(pf.Size, cfg.Size, defaultPuzzleSize)
	seed := pf.Seed
	if seed == 0 {
		seed = cfg.Seed
	}
	collision := cfg.Collision
	if pf.Collision != "" {
		collision, _ = ParseCollisionPolicy(pf.Collision)
	}

	gen := NewGenerator(Options{Seed: seed, Collision: collision, Logger: logger})
	puzzle, err := gen.Generate(ctx, size, pf.Words)
	if err != nil {
		return err
	}
	return writePuzzle(out, puzzle)
}

// runPrompt asks for whatever the flags left out, then generates and prints
// the puzzle.
func runPrompt(ctx context.Context, cfg *Config, prompter Prompter, suggester WordSuggester, out io.Writer, logger *slog.Logger) error {
	size := cfg.Size
	if size == 0 {
		var err error
		size, err = prompter.BoardSize(ctx, minPromptSize, maxPromptSize, defaultPuzzleSize)
		if err != nil {
			return err
		}
	}

	words := cfg.Words
	if len(words) == 0 && cfg.Theme != "" {
		if suggester == nil {
			return &ExitError{Code: 2, Message: "-theme requires GCP_PROJECT_ID or GEMINI_API_KEY"}
		}
		var err error
		words, err = suggester.SuggestWords(ctx, cfg.Theme, defaultSuggestCount, size)
		if err != nil {
			return err
		}
		logger.Debug("words suggested", "theme", cfg.Theme, "words", words)
	}
	if len(words) == 0 {
		var err error
		words, err = prompter.Words(ctx)
		if err != nil {
			return err
		}
	}

	gen := NewGenerator(Options{Seed: cfg.Seed, Collision: cfg.Collision, Logger: logger})
	puzzle, err := gen.Generate(ctx, size, words)
	if err != nil {
		return err
	}
	return writePuzzle(out, puzzle)
}

// writePuzzle prints one diagnostic line per rejected word, then the grid.
func writePuzzle(w io.Writer, p *Puzzle) error {
	for _, line := range p.Diagnostics() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return p.Grid.Render(w)
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
