package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestServer() *Server {
	return NewServer(NewStore(), nil, testLogger())
}

// fakeSuggester returns canned words and records the last request.
type fakeSuggester struct {
	words  []string
	err    error
	theme  string
	count  int
	maxLen int
}

func (f *fakeSuggester) SuggestWords(_ context.Context, theme string, count, maxLen int) ([]string, error) {
	f.theme, f.count, f.maxLen = theme, count, maxLen
	return f.words, f.err
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func createPuzzle(t *testing.T, srv *Server, body string) puzzleView {
	t.Helper()
	w := do(t, srv, "POST", "/api/puzzles", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create puzzle: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var pv puzzleView
	if err := json.NewDecoder(w.Body).Decode(&pv); err != nil {
		t.Fatalf("decode puzzle: %v", err)
	}
	return pv
}

func TestGamePageRoute(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, "GET", "/game/abc123", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected text/html, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "Mots Mêlés") {
		t.Fatal("game page does not contain expected title")
	}
}

func TestCreatePuzzle(t *testing.T) {
	srv := newTestServer()

	pv := createPuzzle(t, srv, `{"size":5,"words":["cat","a1b"],"seed":7}`)

	if pv.ID == "" || pv.Size != 5 || pv.Seed != 7 || pv.Collision != "strict" {
		t.Fatalf("unexpected puzzle %+v", pv)
	}
	if len(pv.Grid) != 5 || len(pv.Grid[0]) != 5 {
		t.Fatalf("expected 5x5 grid, got %dx%d", len(pv.Grid), len(pv.Grid[0]))
	}
	for _, row := range pv.Grid {
		for _, cell := range row {
			if len(cell) != 1 || cell < "A" || cell > "Z" {
				t.Fatalf("unexpected cell %q", cell)
			}
		}
	}
	if diff := cmp.Diff([]string{"CAT"}, pv.Words); diff != "" {
		t.Fatalf("words mismatch (-want +got):\n%s", diff)
	}
	want := []rejectionView{{
		Word:    "a1b",
		Reason:  "invalid_characters",
		Message: "a1b contains non-alphabetic characters.",
	}}
	if diff := cmp.Diff(want, pv.Rejections); diff != "" {
		t.Fatalf("rejections mismatch (-want +got):\n%s", diff)
	}
}

func TestCreatePuzzleFromText(t *testing.T) {
	srv := newTestServer()

	pv := createPuzzle(t, srv, `{"text":"sun  moon star","collision":"lenient"}`)
	if pv.Size != defaultPuzzleSize {
		t.Fatalf("expected default size %d, got %d", defaultPuzzleSize, pv.Size)
	}
	if pv.Collision != "lenient" {
		t.Fatalf("expected lenient collision, got %s", pv.Collision)
	}
	if len(pv.Words) != 3 {
		t.Fatalf("expected 3 words, got %v", pv.Words)
	}
}

func TestCreatePuzzleValidation(t *testing.T) {
	srv := newTestServer()

	tests := map[string]string{
		"bad json":       `{`,
		"size too large": `{"size":99,"words":["sun"]}`,
		"negative size":  `{"size":-1,"words":["sun"]}`,
		"no words":       `{"size":10}`,
		"bad collision":  `{"words":["sun"],"collision":"loose"}`,
		"too many words": `{"words":[` + strings.Repeat(`"a",`, maxPuzzleWords) + `"a"]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if w := do(t, srv, "POST", "/api/puzzles", body); w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetAndListPuzzles(t *testing.T) {
	srv := newTestServer()
	pv := createPuzzle(t, srv, `{"size":6,"words":["sun"],"seed":3}`)

	w := do(t, srv, "GET", "/api/puzzles/"+pv.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got puzzleView
	json.NewDecoder(w.Body).Decode(&got)
	if diff := cmp.Diff(pv.Grid, got.Grid); diff != "" {
		t.Fatalf("grid mismatch (-created +fetched):\n%s", diff)
	}

	if w := do(t, srv, "GET", "/api/puzzles/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = do(t, srv, "GET", "/api/puzzles", "")
	var list []puzzleView
	json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 1 || list[0].ID != pv.ID {
		t.Fatalf("expected the created puzzle in the list, got %+v", list)
	}
}

func TestPuzzleText(t *testing.T) {
	srv := newTestServer()
	pv := createPuzzle(t, srv, `{"size":4,"words":["sun"],"seed":3}`)

	w := do(t, srv, "GET", "/api/puzzles/"+pv.ID+"/text", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %s", ct)
	}
	lines := strings.Split(strings.TrimSuffix(w.Body.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != strings.Join(pv.Grid[0], " ") {
		t.Fatalf("expected %q, got %q", strings.Join(pv.Grid[0], " "), lines[0])
	}
}

func TestPuzzleSolution(t *testing.T) {
	srv := newTestServer()
	pv := createPuzzle(t, srv, `{"size":8,"words":["sun","moon"],"seed":3}`)

	w := do(t, srv, "GET", "/api/puzzles/"+pv.ID+"/solution", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Placements []Placement `json:"placements"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode solution: %v", err)
	}
	if len(resp.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(resp.Placements))
	}
	for _, pl := range resp.Placements {
		var letters []string
		for _, c := range pl.Cells() {
			letters = append(letters, pv.Grid[c.Row][c.Col])
		}
		if got := strings.Join(letters, ""); got != pl.Word {
			t.Fatalf("expected %s at %+v, read %q", pl.Word, pl, got)
		}
	}
}

func TestSuggestWords(t *testing.T) {
	srv := newTestServer()
	if w := do(t, srv, "POST", "/api/words/suggest", `{"theme":"ocean"}`); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without suggester, got %d", w.Code)
	}

	fake := &fakeSuggester{words: []string{"WAVE", "TIDE"}}
	srv = NewServer(NewStore(), fake, testLogger())

	w := do(t, srv, "POST", "/api/words/suggest", `{"theme":" ocean ","count":500,"max_length":8}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Words []string `json:"words"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if diff := cmp.Diff(fake.words, resp.Words); diff != "" {
		t.Fatalf("words mismatch (-want +got):\n%s", diff)
	}
	if fake.theme != "ocean" || fake.count != maxSuggestCount || fake.maxLen != 8 {
		t.Fatalf("unexpected request to suggester: %+v", fake)
	}

	if w := do(t, srv, "POST", "/api/words/suggest", `{"theme":""}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty theme, got %d", w.Code)
	}

	fake.err = errors.New("quota exceeded")
	if w := do(t, srv, "POST", "/api/words/suggest", `{"theme":"space"}`); w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on upstream error, got %d", w.Code)
	}
}

func TestFullGameFlow(t *testing.T) {
	srv := newTestServer()
	pv := createPuzzle(t, srv, `{"size":8,"words":["sun","moon"],"seed":5}`)
	solution := srv.store.GetPuzzle(pv.ID).Placements

	// Create game.
	w := do(t, srv, "POST", "/api/games", `{"puzzle_id":"`+pv.ID+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var game gameView
	json.NewDecoder(w.Body).Decode(&game)
	if game.ID == "" {
		t.Fatal("game ID is empty")
	}

	claim := func(pseudo string, from, to Cell) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]any{"pseudo": pseudo, "from": from, "to": to})
		return do(t, srv, "POST", "/api/games/"+game.ID+"/claim", string(body))
	}
	sun, moon := solution[0], solution[1]
	sunStart := Cell{Row: sun.Row, Col: sun.Col}

	// Claiming before joining is refused.
	if w := claim("Alice", sunStart, sun.End()); w.Code != http.StatusForbidden {
		t.Fatalf("claim before join: expected 403, got %d", w.Code)
	}

	// Join game.
	w = do(t, srv, "POST", "/api/games/"+game.ID+"/join", `{"pseudo":"Alice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("join game: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var player Player
	json.NewDecoder(w.Body).Decode(&player)
	if player.Pseudo != "Alice" {
		t.Fatalf("expected pseudo Alice, got %s", player.Pseudo)
	}

	// Wrong selection.
	if w := claim("Alice", sunStart, sunStart); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("wrong claim: expected 422, got %d", w.Code)
	}

	// Right selection.
	w = claim("Alice", sunStart, sun.End())
	if w.Code != http.StatusOK {
		t.Fatalf("claim: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var found Found
	json.NewDecoder(w.Body).Decode(&found)
	if found.Word != "SUN" || found.Pseudo != "Alice" || found.Direction != sun.Direction {
		t.Fatalf("unexpected found record %+v", found)
	}

	// Same word again.
	if w := claim("Alice", sun.End(), sunStart); w.Code != http.StatusConflict {
		t.Fatalf("duplicate claim: expected 409, got %d", w.Code)
	}

	// Last word, selected backwards.
	if w := claim("Alice", moon.End(), Cell{Row: moon.Row, Col: moon.Col}); w.Code != http.StatusOK {
		t.Fatalf("reverse claim: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Get game state — verify progress is there.
	w = do(t, srv, "GET", "/api/games/"+game.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get game: expected 200, got %d", w.Code)
	}
	var state gameView
	json.NewDecoder(w.Body).Decode(&state)
	if !state.Finished || len(state.Found) != 2 {
		t.Fatalf("expected finished game with 2 found words, got %+v", state)
	}
	if state.Players["Alice"].Score != 2 {
		t.Fatalf("expected Alice to score 2, got %d", state.Players["Alice"].Score)
	}
	if state.Puzzle == nil || state.Puzzle.ID != pv.ID {
		t.Fatal("puzzle should be included in game response")
	}
}

func TestGameNotFound(t *testing.T) {
	srv := newTestServer()

	if w := do(t, srv, "POST", "/api/games", `{"puzzle_id":"nonexistent"}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	empty := createPuzzle(t, srv, `{"size":5,"words":["a1","elephants"],"seed":1}`)
	if w := do(t, srv, "POST", "/api/games", `{"puzzle_id":"`+empty.ID+`"}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a puzzle without hidden words, got %d", w.Code)
	}
	if w := do(t, srv, "POST", "/api/games", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	for _, path := range []string{"/api/games/nope", "/api/games/nope/events"} {
		if w := do(t, srv, "GET", path, ""); w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, w.Code)
		}
	}
	if w := do(t, srv, "POST", "/api/games/nope/join", `{"pseudo":"Bob"}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestJoinValidation(t *testing.T) {
	srv := newTestServer()
	pv := createPuzzle(t, srv, `{"size":5,"words":["sun"]}`)
	game, _ := srv.store.CreateGame(pv.ID)

	for _, body := range []string{`{}`, `{"pseudo":"   "}`} {
		if w := do(t, srv, "POST", "/api/games/"+game.ID+"/join", body); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, w.Code)
		}
	}

	w := do(t, srv, "POST", "/api/games/"+game.ID+"/join", `{"pseudo":"`+strings.Repeat("x", 40)+`"}`)
	var player Player
	json.NewDecoder(w.Body).Decode(&player)
	if len(player.Pseudo) != 20 {
		t.Fatalf("expected pseudo truncated to 20 chars, got %d", len(player.Pseudo))
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, "GET", "/", "")

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}

	for key, expected := range headers {
		if got := w.Header().Get(key); got != expected {
			t.Errorf("header %s: expected %q, got %q", key, expected, got)
		}
	}

	csp := w.Header().Get("Content-Security-Policy")
	if csp == "" {
		t.Error("Content-Security-Policy header missing")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(3, time.Second)

	// First 3 should pass.
	for i := range 3 {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	// 4th should be blocked.
	if rl.allow("1.2.3.4") {
		t.Fatal("4th request should be rate limited")
	}

	// Different IP should still be allowed.
	if !rl.allow("5.6.7.8") {
		t.Fatal("different IP should be allowed")
	}
}
