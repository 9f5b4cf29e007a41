package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/pkg/errors"
)

type lowestColumn struct{}

func (lowestColumn) BestMove(ctx context.Context, board *domain.Board, depth int, side domain.PlayerID) (bot.Result, error) {
	cols := board.LegalColumns()
	if len(cols) == 0 {
		return bot.Result{}, domain.ErrNoLegalMove
	}
	return bot.Result{Column: cols[0], Score: depth}, nil
}

func newTestRouter() (*gin.Engine, *GameHandler) {
	gin.SetMode(gin.TestMode)
	svc := game.NewService(lowestColumn{}, game.Options{Mode: game.ModeVsEngine, EnginePlayer: domain.Player2, Depth: 4})
	h := NewGameHandler(svc)
	router := gin.New()
	RegisterRoutes(router, h)
	return router, h
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createGame(t *testing.T, router *gin.Engine, body any) game.Snapshot {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/games", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: %d %s", w.Code, w.Body.String())
	}
	var snap game.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestCreateGameWithDefaults(t *testing.T) {
	router, _ := newTestRouter()
	snap := createGame(t, router, nil)

	if snap.GameID == "" || snap.Mode != game.ModeVsEngine || snap.Depth != 4 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.MoveCount != 0 || snap.Turn != domain.Player1 {
		t.Fatalf("expected a fresh game, got %+v", snap)
	}
}

func TestCreateGameDifficulty(t *testing.T) {
	router, _ := newTestRouter()

	snap := createGame(t, router, map[string]any{"difficulty": "easy", "engine_player": 1})
	if snap.Depth != bot.DepthForDifficulty(bot.DifficultyEasy) {
		t.Fatalf("expected easy depth, got %d", snap.Depth)
	}
	if snap.MoveCount != 1 || snap.LastMove == nil || snap.LastMove.Player != domain.Player1 {
		t.Fatalf("engine should open as Player1, got %+v", snap)
	}

	w := doJSON(t, router, http.MethodPost, "/api/games", map[string]any{"difficulty": "impossible"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown difficulty, got %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/api/games", map[string]any{"mode": "chess"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", w.Code)
	}
}

func TestPlayMoveReturnsEngineReply(t *testing.T) {
	router, _ := newTestRouter()
	snap := createGame(t, router, nil)

	w := doJSON(t, router, http.MethodPost, "/api/games/"+snap.GameID+"/moves", map[string]int{"column": 3})
	if w.Code != http.StatusOK {
		t.Fatalf("play move: %d %s", w.Code, w.Body.String())
	}
	var resp moveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Moves) != 2 || resp.Moves[0].Column != 3 || resp.Moves[1].Column != 0 {
		t.Fatalf("unexpected moves %+v", resp.Moves)
	}
	if resp.Game.MoveCount != 2 || resp.Game.EngineScore == nil || *resp.Game.EngineScore != 4 {
		t.Fatalf("unexpected game %+v", resp.Game)
	}
}

func TestPlayMoveErrors(t *testing.T) {
	router, _ := newTestRouter()
	snap := createGame(t, router, nil)
	path := "/api/games/" + snap.GameID + "/moves"

	if w := doJSON(t, router, http.MethodPost, path, map[string]int{"column": 9}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for column 9, got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, path, map[string]string{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without column, got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/api/games/nope/moves", map[string]int{"column": 1}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/api/games/"+snap.GameID+"/engine", nil); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 when the engine is not on move, got %d", w.Code)
	}
}

func TestEngineMoveInTwoPlayerGame(t *testing.T) {
	router, _ := newTestRouter()
	snap := createGame(t, router, map[string]any{"mode": "two_player"})

	w := doJSON(t, router, http.MethodPost, "/api/games/"+snap.GameID+"/engine", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("engine move: %d %s", w.Code, w.Body.String())
	}
	var resp moveResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Moves) != 1 || resp.Moves[0].Player != domain.Player1 {
		t.Fatalf("hint should play for the side to move, got %+v", resp.Moves)
	}
}

func TestResetListAndDelete(t *testing.T) {
	router, h := newTestRouter()
	snap := createGame(t, router, nil)
	doJSON(t, router, http.MethodPost, "/api/games/"+snap.GameID+"/moves", map[string]int{"column": 2})

	w := doJSON(t, router, http.MethodPost, "/api/games/"+snap.GameID+"/reset", nil)
	var reset game.Snapshot
	json.Unmarshal(w.Body.Bytes(), &reset)
	if w.Code != http.StatusOK || reset.MoveCount != 0 {
		t.Fatalf("reset: %d %+v", w.Code, reset)
	}

	w = doJSON(t, router, http.MethodGet, "/api/games", nil)
	var list []liveGameResponse
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 || list[0].GameID != snap.GameID {
		t.Fatalf("unexpected list %+v", list)
	}

	var removed string
	h.OnRemove = func(gameID string) { removed = gameID }
	if w := doJSON(t, router, http.MethodDelete, "/api/games/"+snap.GameID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if removed != snap.GameID {
		t.Fatalf("OnRemove not called, got %q", removed)
	}
	if w := doJSON(t, router, http.MethodGet, "/api/games/"+snap.GameID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestAnalyze(t *testing.T) {
	router, _ := newTestRouter()

	board := make([][]int, domain.Rows)
	for r := range board {
		board[r] = make([]int, domain.Columns)
	}
	board[domain.Rows-1][0] = 1

	w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]any{"board": board, "difficulty": "medium"})
	if w.Code != http.StatusOK {
		t.Fatalf("analyze: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Column int `json:"column"`
		Score  int `json:"score"`
		Player int `json:"player"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Column != 0 || resp.Player != 2 || resp.Score != bot.DepthForDifficulty(bot.DifficultyMedium) {
		t.Fatalf("unexpected analysis %+v", resp)
	}

	// floating piece
	board[domain.Rows-1][0] = 0
	board[0][0] = 1
	if w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]any{"board": board}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an impossible board, got %d", w.Code)
	}
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errors.Wrap(domain.ErrColumnFull, "x"), http.StatusBadRequest},
		{domain.ErrInvalidBoard, http.StatusBadRequest},
		{errors.Wrap(domain.ErrSessionNotFound, "x"), http.StatusNotFound},
		{errors.Wrap(domain.ErrGameOver, "x"), http.StatusConflict},
		{domain.ErrNotYourTurn, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusForError(tc.err); got != tc.want {
			t.Errorf("StatusForError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter()
	if w := doJSON(t, router, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz: %d", w.Code)
	}
}
