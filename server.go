package main

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

//go:embed frontend
var frontendFS embed.FS

const (
	defaultPuzzleSize = 15
	maxPuzzleSize     = 50
	maxPuzzleWords    = 100
	maxRequestSize    = 64 << 10 // 64 Ko

	defaultSuggestCount = 10
	maxSuggestCount     = 30
)

// rateLimiter is a simple per-IP token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
	}
	// Cleanup stale entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, b := range rl.visitors {
				if time.Since(b.lastSeen) > 5*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: time.Now()}
		return true
	}

	// Refill tokens based on elapsed time.
	elapsed := time.Since(b.lastSeen)
	refill := int(elapsed / rl.interval)
	if refill > 0 {
		b.tokens += refill * rl.rate
		if b.tokens > rl.rate {
			b.tokens = rl.rate
		}
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Server is the main HTTP server.
type Server struct {
	mux       *http.ServeMux
	store     *Store
	suggester WordSuggester
	sse       *Broadcaster
	logger    *slog.Logger
	createRL  *rateLimiter
	claimRL   *rateLimiter
}

// NewServer creates a configured HTTP server. suggester may be nil, in which
// case word suggestions are disabled.
func NewServer(store *Store, suggester WordSuggester, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mux:       http.NewServeMux(),
		store:     store,
		suggester: suggester,
		sse:       NewBroadcaster(),
		logger:    logger,
		createRL:  newRateLimiter(20, time.Minute), // 20 puzzles/min per IP
		claimRL:   newRateLimiter(10, time.Second), // 10 claims/sec per IP
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Puzzle API
	s.mux.HandleFunc("POST /api/puzzles", s.handleCreatePuzzle)
	s.mux.HandleFunc("GET /api/puzzles", s.handleListPuzzles)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.handleGetPuzzle)
	s.mux.HandleFunc("GET /api/puzzles/{id}/text", s.handlePuzzleText)
	s.mux.HandleFunc("GET /api/puzzles/{id}/solution", s.handlePuzzleSolution)
	s.mux.HandleFunc("POST /api/words/suggest", s.handleSuggestWords)

	// Game API
	s.mux.HandleFunc("POST /api/games", s.handleCreateGame)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	s.mux.HandleFunc("POST /api/games/{id}/join", s.handleJoinGame)
	s.mux.HandleFunc("POST /api/games/{id}/claim", s.handleClaim)
	s.mux.HandleFunc("GET /api/games/{id}/events", s.handleGameEvents)

	// Frontend static files
	frontendDir, _ := fs.Sub(frontendFS, "frontend")
	fileServer := http.FileServer(http.FS(frontendDir))
	s.mux.HandleFunc("GET /game/{id}", s.handleGamePage)
	s.mux.Handle("GET /", fileServer)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Views ---

type rejectionView struct {
	Word    string `json:"word"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type puzzleView struct {
	ID         string          `json:"id"`
	Size       int             `json:"size"`
	Seed       int64           `json:"seed"`
	Collision  string          `json:"collision"`
	Grid       [][]string      `json:"grid"`
	Words      []string        `json:"words"`
	Rejections []rejectionView `json:"rejections"`
	CreatedAt  time.Time       `json:"created_at"`
}

func newPuzzleView(p *Puzzle) puzzleView {
	v := puzzleView{
		ID:         p.ID,
		Size:       p.Size,
		Seed:       p.Seed,
		Collision:  p.Collision.String(),
		Grid:       p.Grid.Rows(),
		Words:      p.Words(),
		Rejections: make([]rejectionView, len(p.Rejections)),
		CreatedAt:  p.CreatedAt,
	}
	for i, r := range p.Rejections {
		v.Rejections[i] = rejectionView{
			Word:    r.Word,
			Reason:  reasonCode(r.Reason),
			Message: diagnostic(r),
		}
	}
	return v
}

// --- Puzzle handlers ---

// POST /api/puzzles — generate and save a puzzle.
func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	if !s.createRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	var req struct {
		Size      int      `json:"size"`
		Words     []string `json:"words"`
		Text      string   `json:"text"` // space separated alternative to words
		Seed      int64    `json:"seed"`
		Collision string   `json:"collision"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	if req.Size == 0 {
		req.Size = defaultPuzzleSize
	}
	if req.Size < 1 || req.Size > maxPuzzleSize {
		jsonError(w, "Taille invalide : entre 1 et 50", http.StatusBadRequest)
		return
	}
	words := append(req.Words, strings.Fields(req.Text)...)
	if len(words) == 0 {
		jsonError(w, "Champ 'words' requis", http.StatusBadRequest)
		return
	}
	if len(words) > maxPuzzleWords {
		jsonError(w, "Trop de mots (max 100)", http.StatusBadRequest)
		return
	}
	collision, err := ParseCollisionPolicy(req.Collision)
	if err != nil {
		jsonError(w, "Champ 'collision' invalide : strict ou lenient", http.StatusBadRequest)
		return
	}

	gen := NewGenerator(Options{Seed: req.Seed, Collision: collision, Logger: s.logger})
	puzzle, err := gen.Generate(r.Context(), req.Size, words)
	if err != nil {
		s.logger.Error("puzzle generation failed", "error", err)
		jsonError(w, "Erreur lors de la génération de la grille", http.StatusInternalServerError)
		return
	}

	s.store.SavePuzzle(puzzle)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newPuzzleView(puzzle))
}

// GET /api/puzzles — list all puzzles.
func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request) {
	puzzles := s.store.ListPuzzles()
	views := make([]puzzleView, len(puzzles))
	for i, p := range puzzles {
		views[i] = newPuzzleView(p)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

// GET /api/puzzles/{id} — get a single puzzle.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	puzzle := s.store.GetPuzzle(r.PathValue("id"))
	if puzzle == nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newPuzzleView(puzzle))
}

// GET /api/puzzles/{id}/text — plain text rendering, one line per row.
func (s *Server) handlePuzzleText(w http.ResponseWriter, r *http.Request) {
	puzzle := s.store.GetPuzzle(r.PathValue("id"))
	if puzzle == nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	puzzle.Grid.Render(w)
}

// GET /api/puzzles/{id}/solution — where each word was placed.
func (s *Server) handlePuzzleSolution(w http.ResponseWriter, r *http.Request) {
	puzzle := s.store.GetPuzzle(r.PathValue("id"))
	if puzzle == nil {
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	placements := append([]Placement{}, puzzle.Placements...)
	json.NewEncoder(w).Encode(map[string]any{"placements": placements})
}

// POST /api/words/suggest — ask Gemini for words on a theme.
func (s *Server) handleSuggestWords(w http.ResponseWriter, r *http.Request) {
	if !s.createRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	if s.suggester == nil {
		jsonError(w, "Suggestion de mots non configurée", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Theme     string `json:"theme"`
		Count     int    `json:"count"`
		MaxLength int    `json:"max_length"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Theme) == "" {
		jsonError(w, "Champ 'theme' requis", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		req.Count = defaultSuggestCount
	}
	req.Count = min(req.Count, maxSuggestCount)
	if req.MaxLength <= 0 || req.MaxLength > maxPuzzleSize {
		req.MaxLength = defaultPuzzleSize
	}

	words, err := s.suggester.SuggestWords(r.Context(), strings.TrimSpace(req.Theme), req.Count, req.MaxLength)
	if err != nil {
		s.logger.Error("word suggestion failed", "theme", req.Theme, "error", err)
		jsonError(w, "Erreur lors de la suggestion de mots", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"words": words})
}

// --- Game handlers ---

type gameView struct {
	ID        string            `json:"id"`
	PuzzleID  string            `json:"puzzle_id"`
	Players   map[string]Player `json:"players"`
	Found     []Found           `json:"found"`
	Finished  bool              `json:"finished"`
	CreatedAt time.Time         `json:"created_at"`
	Puzzle    *puzzleView       `json:"puzzle,omitempty"`
}

func (s *Server) newGameView(g *GameSession, withPuzzle bool) gameView {
	v := gameView{
		ID:        g.ID,
		PuzzleID:  g.PuzzleID,
		Players:   g.GetPlayers(),
		Found:     g.GetFound(),
		Finished:  g.Finished(),
		CreatedAt: g.CreatedAt,
	}
	if withPuzzle {
		if p := s.store.GetPuzzle(g.PuzzleID); p != nil {
			pv := newPuzzleView(p)
			v.Puzzle = &pv
		}
	}
	return v
}

// POST /api/games — create a game from a puzzle.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PuzzleID string `json:"puzzle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PuzzleID == "" {
		jsonError(w, "Champ 'puzzle_id' requis", http.StatusBadRequest)
		return
	}

	game, err := s.store.CreateGame(req.PuzzleID)
	switch {
	case errors.Is(err, ErrNoHiddenWords):
		jsonError(w, "Aucun mot à trouver", http.StatusUnprocessableEntity)
		return
	case err != nil:
		jsonError(w, "Grille introuvable", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(s.newGameView(game, false))
}

// GET /api/games/{id} — get current game state with its puzzle.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.newGameView(game, true))
}

// POST /api/games/{id}/join — join a game with a pseudo.
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return
	}

	var req struct {
		Pseudo string `json:"pseudo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pseudo == "" {
		jsonError(w, "Champ 'pseudo' requis", http.StatusBadRequest)
		return
	}

	pseudo := sanitizePseudo(req.Pseudo)
	if pseudo == "" {
		jsonError(w, "Pseudo invalide", http.StatusBadRequest)
		return
	}

	player := game.AddPlayer(pseudo)

	s.publish(game.ID, "player_joined", map[string]string{
		"pseudo": player.Pseudo,
		"color":  player.Color,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(player)
}

// POST /api/games/{id}/claim — submit a selection from one cell to another.
func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	if !s.claimRL.allow(r.RemoteAddr) {
		jsonError(w, "Trop de requêtes, réessayez plus tard", http.StatusTooManyRequests)
		return
	}

	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return
	}

	var req struct {
		Pseudo string `json:"pseudo"`
		From   Cell   `json:"from"`
		To     Cell   `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	found, finished, err := game.Claim(sanitizePseudo(req.Pseudo), req.From, req.To)
	switch {
	case errors.Is(err, ErrNotJoined):
		jsonError(w, "Rejoignez la partie d'abord", http.StatusForbidden)
		return
	case errors.Is(err, ErrAlreadyFound):
		jsonError(w, "Mot déjà trouvé", http.StatusConflict)
		return
	case errors.Is(err, ErrNoMatch):
		jsonError(w, "Aucun mot à cet endroit", http.StatusUnprocessableEntity)
		return
	case err != nil:
		jsonError(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	s.publish(game.ID, "word_found", found)
	if finished {
		s.publish(game.ID, "game_finished", map[string]any{"players": game.GetPlayers()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(found)
}

// GET /api/games/{id}/events — SSE stream.
func (s *Server) handleGameEvents(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "Partie introuvable", http.StatusNotFound)
		return
	}

	playerPseudo := sanitizePseudo(r.URL.Query().Get("pseudo"))

	s.sse.ServeSSE(w, r, game.ID, func() *event {
		// Send initial game state on connect.
		data, err := json.Marshal(s.newGameView(game, false))
		if err != nil {
			return nil
		}
		return &event{Type: "game_state", Data: string(data)}
	}, func() {
		// On disconnect: broadcast player_left if pseudo was provided.
		if playerPseudo != "" {
			game.RemovePlayer(playerPseudo)
			s.publish(game.ID, "player_left", map[string]string{"pseudo": playerPseudo})
		}
	})
}

func (s *Server) publish(gameID, eventType string, payload any) {
	if err := s.sse.Publish(gameID, eventType, payload); err != nil {
		s.logger.Error("publish event", "game", gameID, "error", err)
	}
}

// --- Frontend page handlers ---

// GET /game/{id} — serve the game page.
func (s *Server) handleGamePage(w http.ResponseWriter, _ *http.Request) {
	data, _ := frontendFS.ReadFile("frontend/game.html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// --- Helpers ---

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizePseudo(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 20 {
		s = string([]rune(s)[:20])
	}
	return s
}
