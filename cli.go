package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError is returned for usage problems; Code is the process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Config holds everything main needs to run in one of its three modes:
// HTTP server (default), interactive prompt (-cli) or batch file (-puzzle).
type Config struct {
	Addr       string
	CLI        bool
	PuzzlePath string
	Words      []string
	Theme      string
	Size       int
	Seed       int64
	Collision  CollisionPolicy
	LogLevel   string
	LogFormat  string
	Gemini     GeminiConfig
}

// parseArgs reads command-line flags and environment variables. It reports
// true when the program should exit cleanly (help was requested).
func parseArgs(args []string, getenv func(string) string, output io.Writer) (*Config, bool, error) {
	fs := flag.NewFlagSet("wordsearch", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
wordsearch - word search puzzle generator.

Usage:
  wordsearch [options]              serve the web UI and API
  wordsearch -cli [options]         prompt for words and board size
  wordsearch -puzzle FILE [options] generate from a .yaml, .json or .hcl file

Options:
`)
		fs.PrintDefaults()
	}

	port := getenv("PORT")
	if port == "" {
		port = "8080"
	}

	addr := fs.String("addr", ":"+port, "HTTP listen address.")
	cli := fs.Bool("cli", false, "Run interactively in the terminal instead of serving HTTP.")
	puzzle := fs.String("puzzle", "", "Puzzle definition file (.yaml, .yml, .json or .hcl).")
	words := fs.String("words", "", "Space separated words; skips the word prompt in -cli mode.")
	theme := fs.String("theme", "", "Ask Gemini for words on this theme in -cli mode.")
	size := fs.Int("size", 0, "Board size; skips the size prompt in -cli mode.")
	seed := fs.Int64("seed", 0, "Random seed. 0 picks one from the clock.")
	collision := fs.String("collision", "strict", "Collision policy: 'strict' or 'lenient'.")
	logLevel := fs.String("log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	logFormat := fs.String("log-format", "text", "Log output format: 'text' or 'json'.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	policy, err := ParseCollisionPolicy(*collision)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid collision: must be 'strict' or 'lenient'"}
	}

	level := strings.ToLower(*logLevel)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	format := strings.ToLower(*logFormat)
	if format != "text" && format != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	if *size < 0 || *size > maxPuzzleSize {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid size: must be between 1 and %d", maxPuzzleSize)}
	}

	cfg := &Config{
		Addr:       *addr,
		CLI:        *cli,
		PuzzlePath: *puzzle,
		Theme:      strings.TrimSpace(*theme),
		Size:       *size,
		Seed:       *seed,
		Collision:  policy,
		LogLevel:   level,
		LogFormat:  format,
		Gemini: GeminiConfig{
			ProjectID: getenv("GCP_PROJECT_ID"),
			Region:    getenv("GCP_REGION"),
			APIKey:    getenv("GEMINI_API_KEY"),
			Model:     getenv("GEMINI_MODEL"),
		},
	}
	if w := strings.Fields(*words); len(w) > 0 {
		cfg.Words = w
	}
	return cfg, false, nil
}
