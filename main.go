package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
)

func main() {
	// Minimal logger until flags are parsed.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	cfg, shouldExit, err := parseArgs(args, getenv, stderr)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, stderr)
	slog.SetDefault(logger)

	var suggester WordSuggester
	if cfg.Gemini.Enabled() {
		gemini, err := NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			return fmt.Errorf("impossible d'initialiser Gemini : %w", err)
		}
		defer gemini.Close()
		suggester = gemini
		logger.Info("Client Gemini initialisé", "project", cfg.Gemini.ProjectID, "model", gemini.modelName)
	} else {
		logger.Info("GCP_PROJECT_ID et GEMINI_API_KEY non définis — suggestion de mots désactivée")
	}

	switch {
	case cfg.PuzzlePath != "":
		return runFile(ctx, cfg, stdout, logger)
	case cfg.CLI:
		return runPrompt(ctx, cfg, newSurveyPrompter(), suggester, stdout, logger)
	}

	srv := NewServer(NewStore(), suggester, logger)
	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv}
	go func() {
		<-ctx.Done()
		httpSrv.Shutdown(context.Background())
	}()

	logger.Info("Serveur démarré", "addr", cfg.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
