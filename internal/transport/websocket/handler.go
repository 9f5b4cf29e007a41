package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/rs/zerolog/log"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager *ConnectionManager
	GameService *game.Service
	Upgrader    websocket.Upgrader
}

// NewHandler creates a handler that accepts sockets from the given origins.
// Requests without an Origin header are always accepted.
func NewHandler(cm *ConnectionManager, gs *game.Service, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &Handler{
		ConnManager: cm,
		GameService: gs,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket upgrades GET /ws/games/:id for an existing game.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	session, err := h.GameService.Get(gameID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("game", gameID).Msg("[WS] Upgrade error")
		return
	}

	h.ConnManager.AddConnection(gameID, conn)
	log.Info().Str("game", gameID).Int("sockets", h.ConnManager.Count(gameID)).Msg("[WS] Connection opened")
	h.ConnManager.SendMessage(gameID, conn, stateMessage(MsgGameState, session.Snapshot()))

	h.handleConnection(gameID, conn)
}

func (h *Handler) handleConnection(gameID string, conn *websocket.Conn) {
	done := make(chan struct{})
	defer func() {
		close(done)
		h.ConnManager.RemoveConnection(gameID, conn)
		log.Info().Str("game", gameID).Msg("[WS] Connection closed")
	}()

	// Set read deadline to detect stale connections
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := h.ConnManager.Ping(gameID, conn); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("game", gameID).Msg("[WS] Client disconnected unexpectedly")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.ConnManager.SendMessage(gameID, conn, errorMessage("Invalid message format"))
			continue
		}

		h.processMessage(gameID, conn, msg)
	}
}

// processMessage routes one client action. Results go to every socket on
// the game; errors only to the sender.
func (h *Handler) processMessage(gameID string, conn *websocket.Conn, msg ClientMessage) {
	session, err := h.GameService.Get(gameID)
	if err != nil {
		h.ConnManager.SendMessage(gameID, conn, errorMessage(err.Error()))
		return
	}
	ctx := context.Background()

	switch msg.Type {
	case MsgMove:
		if msg.Column == nil {
			h.ConnManager.SendMessage(gameID, conn, errorMessage("column is required"))
			return
		}
		moves, err := session.PlayTurn(ctx, *msg.Column)
		if len(moves) > 0 {
			snap := session.Snapshot()
			for i := range moves {
				h.ConnManager.Broadcast(gameID, ServerMessage{Type: MsgMoveMade, Move: &moves[i], Game: &snap})
			}
			h.announceOutcome(gameID, snap)
		}
		if err != nil {
			h.ConnManager.SendMessage(gameID, conn, errorMessage(err.Error()))
		}

	case MsgEngineMove:
		move, err := session.PlayEngine(ctx)
		if err != nil {
			h.ConnManager.SendMessage(gameID, conn, errorMessage(err.Error()))
			return
		}
		snap := session.Snapshot()
		h.ConnManager.Broadcast(gameID, ServerMessage{Type: MsgMoveMade, Move: &move, Game: &snap})
		h.announceOutcome(gameID, snap)

	case MsgNewGame:
		if _, err := h.GameService.Restart(ctx, gameID); err != nil {
			h.ConnManager.SendMessage(gameID, conn, errorMessage(err.Error()))
			return
		}
		h.ConnManager.Broadcast(gameID, stateMessage(MsgGameState, session.Snapshot()))

	default:
		h.ConnManager.SendMessage(gameID, conn, errorMessage("Unknown message type"))
	}
}

func (h *Handler) announceOutcome(gameID string, snap game.Snapshot) {
	if snap.Status == domain.StatusActive {
		return
	}
	h.ConnManager.Broadcast(gameID, stateMessage(MsgGameOver, snap))
}
