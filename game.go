package main

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNoMatch      = errors.New("selection does not match a hidden word")
	ErrAlreadyFound = errors.New("word already found")
	ErrNotJoined    = errors.New("player has not joined the game")
)

// Player represents a connected player.
type Player struct {
	Pseudo   string    `json:"pseudo"`
	Color    string    `json:"color"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

// Found is a hidden word claimed by a player.
type Found struct {
	Placement
	Pseudo  string    `json:"pseudo"`
	Color   string    `json:"color"`
	FoundAt time.Time `json:"found_at"`
}

// GameSession represents a collaborative hunt on a puzzle.
type GameSession struct {
	ID        string             `json:"id"`
	PuzzleID  string             `json:"puzzle_id"`
	Players   map[string]*Player `json:"players"`
	Found     []Found            `json:"found"`
	CreatedAt time.Time          `json:"created_at"`
	puzzle    *Puzzle
	claimed   map[int]bool // placement index -> found
	mu        sync.Mutex
}

// playerColors is the palette assigned to players in order.
var playerColors = []string{
	"#2563eb", "#dc2626", "#16a34a", "#9333ea",
	"#ea580c", "#0891b2", "#c026d3", "#ca8a04",
}

// AddPlayer adds a player to the session and returns the player.
func (g *GameSession) AddPlayer(pseudo string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.Players[pseudo]; ok {
		return p
	}

	p := &Player{
		Pseudo:   pseudo,
		Color:    playerColors[len(g.Players)%len(playerColors)],
		JoinedAt: time.Now(),
	}
	g.Players[pseudo] = p
	return p
}

// RemovePlayer removes a player from the session.
func (g *GameSession) RemovePlayer(pseudo string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Players, pseudo)
}

// Claim checks a selection from one cell to another against the hidden
// words. A word may be selected from either end. finished is true only for
// the claim that found the last word.
func (g *GameSession) Claim(pseudo string, from, to Cell) (found Found, finished bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, ok := g.Players[pseudo]
	if !ok {
		return Found{}, false, ErrNotJoined
	}

	matched := false
	for i, pl := range g.puzzle.Placements {
		start, end := Cell{Row: pl.Row, Col: pl.Col}, pl.End()
		if !(from == start && to == end) && !(from == end && to == start) {
			continue
		}
		matched = true
		if g.claimed[i] {
			continue
		}
		f := Found{
			Placement: pl,
			Pseudo:    player.Pseudo,
			Color:     player.Color,
			FoundAt:   time.Now(),
		}
		if g.claimed == nil {
			g.claimed = make(map[int]bool)
		}
		g.claimed[i] = true
		g.Found = append(g.Found, f)
		player.Score++
		return f, len(g.claimed) == len(g.puzzle.Placements), nil
	}
	if matched {
		return Found{}, false, ErrAlreadyFound
	}
	return Found{}, false, ErrNoMatch
}

// Finished reports whether every hidden word has been found.
func (g *GameSession) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.claimed) == len(g.puzzle.Placements)
}

// GetFound returns a copy of the words found so far.
func (g *GameSession) GetFound() []Found {
	g.mu.Lock()
	defer g.mu.Unlock()

	cp := make([]Found, len(g.Found))
	copy(cp, g.Found)
	return cp
}

// GetPlayers returns a copy of the connected players.
func (g *GameSession) GetPlayers() map[string]Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	cp := make(map[string]Player, len(g.Players))
	for k, p := range g.Players {
		cp[k] = *p
	}
	return cp
}
