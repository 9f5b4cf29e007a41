package websocket

import (
	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/game"
)

const (
	MsgMove       = "move"
	MsgEngineMove = "engine_move"
	MsgNewGame    = "new_game"

	MsgGameState = "game_state"
	MsgMoveMade  = "move_made"
	MsgGameOver  = "game_over"
	MsgError     = "error"
)

type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
}

type ServerMessage struct {
	Type    string         `json:"type"`
	Move    *domain.Move   `json:"move,omitempty"`
	Game    *game.Snapshot `json:"game,omitempty"`
	Message string         `json:"message,omitempty"`
}

func stateMessage(msgType string, snap game.Snapshot) ServerMessage {
	return ServerMessage{Type: msgType, Game: &snap}
}

func errorMessage(text string) ServerMessage {
	return ServerMessage{Type: MsgError, Message: text}
}
