package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrNoHiddenWords  = errors.New("puzzle has no hidden words")
)

// Store holds all puzzles and game sessions in memory.
type Store struct {
	mu      sync.RWMutex
	puzzles map[string]*Puzzle
	games   map[string]*GameSession
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		puzzles: make(map[string]*Puzzle),
		games:   make(map[string]*GameSession),
	}
}

// SavePuzzle persists a puzzle and returns it with a generated ID.
func (s *Store) SavePuzzle(p *Puzzle) *Puzzle {
	p.ID = generateID()
	p.CreatedAt = time.Now()

	s.mu.Lock()
	s.puzzles[p.ID] = p
	s.mu.Unlock()

	return p
}

// GetPuzzle returns a puzzle by ID, or nil if not found.
func (s *Store) GetPuzzle(id string) *Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puzzles[id]
}

// ListPuzzles returns all puzzles, most recent first.
func (s *Store) ListPuzzles() []*Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Puzzle, 0, len(s.puzzles))
	for _, p := range s.puzzles {
		list = append(list, p)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// CreateGame creates a new game session for a given puzzle.
// Returns an error if the puzzle does not exist.
func (s *Store) CreateGame(puzzleID string) (*GameSession, error) {
	s.mu.RLock()
	puzzle := s.puzzles[puzzleID]
	s.mu.RUnlock()

	if puzzle == nil {
		return nil, fmt.Errorf("%w: %s", ErrPuzzleNotFound, puzzleID)
	}
	if len(puzzle.Placements) == 0 {
		return nil, ErrNoHiddenWords
	}

	game := &GameSession{
		ID:        generateID(),
		PuzzleID:  puzzleID,
		Players:   make(map[string]*Player),
		Found:     []Found{},
		CreatedAt: time.Now(),
		puzzle:    puzzle,
	}

	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()

	return game, nil
}

// GetGame returns a game session by ID, or nil if not found.
func (s *Store) GetGame(id string) *GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games[id]
}

// ListGames returns all game sessions.
func (s *Store) ListGames() []*GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*GameSession, 0, len(s.games))
	for _, g := range s.games {
		list = append(list, g)
	}
	return list
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
