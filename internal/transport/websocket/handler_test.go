package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/game"
)

type lowestColumn struct{}

func (lowestColumn) BestMove(ctx context.Context, board *domain.Board, depth int, side domain.PlayerID) (bot.Result, error) {
	cols := board.LegalColumns()
	if len(cols) == 0 {
		return bot.Result{}, domain.ErrNoLegalMove
	}
	return bot.Result{Column: cols[0]}, nil
}

func newTestServer(t *testing.T, mode game.Mode) (*httptest.Server, *game.Session, *ConnectionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := game.NewService(lowestColumn{}, game.Options{Mode: mode, EnginePlayer: domain.Player2, Depth: 2})
	session, err := svc.NewGame(context.Background(), game.Options{})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}

	cm := NewConnectionManager()
	h := NewHandler(cm, svc, nil)
	router := gin.New()
	router.GET("/ws/games/:id", h.HandleWebSocket)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, session, cm
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/games/" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestConnectSendsGameState(t *testing.T) {
	srv, session, _ := newTestServer(t, game.ModeVsEngine)
	conn := dial(t, srv, session.ID)

	msg := read(t, conn)
	if msg.Type != MsgGameState || msg.Game == nil || msg.Game.GameID != session.ID {
		t.Fatalf("unexpected first message %+v", msg)
	}
}

func TestMoveBroadcastsHumanAndEngineMoves(t *testing.T) {
	srv, session, _ := newTestServer(t, game.ModeVsEngine)
	player := dial(t, srv, session.ID)
	watcher := dial(t, srv, session.ID)
	read(t, player)
	read(t, watcher)

	col := 4
	if err := player.WriteJSON(ClientMessage{Type: MsgMove, Column: &col}); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, conn := range []*websocket.Conn{player, watcher} {
		human := read(t, conn)
		if human.Type != MsgMoveMade || human.Move == nil || human.Move.Column != 4 || human.Move.Player != domain.Player1 {
			t.Fatalf("unexpected human move message %+v", human)
		}
		reply := read(t, conn)
		if reply.Type != MsgMoveMade || reply.Move == nil || reply.Move.Player != domain.Player2 {
			t.Fatalf("unexpected engine move message %+v", reply)
		}
		if reply.Game.MoveCount != 2 {
			t.Fatalf("expected two moves on the board, got %d", reply.Game.MoveCount)
		}
	}
}

func TestErrorsGoOnlyToSender(t *testing.T) {
	srv, session, _ := newTestServer(t, game.ModeVsEngine)
	conn := dial(t, srv, session.ID)
	read(t, conn)

	col := 11
	conn.WriteJSON(ClientMessage{Type: MsgMove, Column: &col})
	if msg := read(t, conn); msg.Type != MsgError || msg.Message == "" {
		t.Fatalf("expected error message, got %+v", msg)
	}

	conn.WriteJSON(ClientMessage{Type: "resign"})
	if msg := read(t, conn); msg.Type != MsgError {
		t.Fatalf("expected error for unknown type, got %+v", msg)
	}
}

func TestTwoPlayerWinAndNewGame(t *testing.T) {
	srv, session, _ := newTestServer(t, game.ModeTwoPlayer)
	conn := dial(t, srv, session.ID)
	read(t, conn)

	for _, c := range []int{0, 1, 0, 1, 0, 1, 0} {
		col := c
		conn.WriteJSON(ClientMessage{Type: MsgMove, Column: &col})
		if msg := read(t, conn); msg.Type != MsgMoveMade {
			t.Fatalf("expected move_made, got %+v", msg)
		}
	}
	over := read(t, conn)
	if over.Type != MsgGameOver || over.Game.Status != domain.StatusWon || over.Game.Winner != domain.Player1 {
		t.Fatalf("expected Player1 win, got %+v", over)
	}

	conn.WriteJSON(ClientMessage{Type: MsgNewGame})
	state := read(t, conn)
	if state.Type != MsgGameState || state.Game.MoveCount != 0 || state.Game.Status != domain.StatusActive {
		t.Fatalf("expected a fresh game state, got %+v", state)
	}
}

func TestUnknownGameIsRejected(t *testing.T) {
	srv, _, _ := newTestServer(t, game.ModeVsEngine)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/games/missing"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatalf("expected the upgrade to be refused")
	}
}
