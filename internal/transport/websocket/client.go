package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

// ConnectionManager tracks the sockets watching each game.
type ConnectionManager struct {
	// conn.WriteJSON is not safe for concurrent use, so every socket
	// carries its own write lock
	games map[string]map[*websocket.Conn]*sync.Mutex
	mu    sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		games: make(map[string]map[*websocket.Conn]*sync.Mutex),
	}
}

func (cm *ConnectionManager) AddConnection(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	conns, ok := cm.games[gameID]
	if !ok {
		conns = make(map[*websocket.Conn]*sync.Mutex)
		cm.games[gameID] = conns
	}
	conns[conn] = &sync.Mutex{}
}

func (cm *ConnectionManager) RemoveConnection(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	conns, ok := cm.games[gameID]
	if !ok {
		return
	}
	if _, exists := conns[conn]; exists {
		conn.Close()
		delete(conns, conn)
	}
	if len(conns) == 0 {
		delete(cm.games, gameID)
	}
}

func (cm *ConnectionManager) Count(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.games[gameID])
}

func (cm *ConnectionManager) writeLock(gameID string, conn *websocket.Conn) *sync.Mutex {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.games[gameID][conn]
}

// SendMessage writes to one socket. A socket that already left is ignored.
func (cm *ConnectionManager) SendMessage(gameID string, conn *websocket.Conn, message ServerMessage) error {
	mu := cm.writeLock(gameID, conn)
	if mu == nil {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(message)
}

// Ping sends a keep-alive frame under the socket's write lock.
func (cm *ConnectionManager) Ping(gameID string, conn *websocket.Conn) error {
	mu := cm.writeLock(gameID, conn)
	if mu == nil {
		return websocket.ErrCloseSent
	}

	mu.Lock()
	defer mu.Unlock()
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Broadcast sends a message to every socket on a game, in call order per
// socket. A socket whose write fails is dropped.
func (cm *ConnectionManager) Broadcast(gameID string, message ServerMessage) {
	cm.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(cm.games[gameID]))
	for conn := range cm.games[gameID] {
		conns = append(conns, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range conns {
		if err := cm.SendMessage(gameID, conn, message); err != nil {
			log.Warn().Err(err).Str("game", gameID).Msg("[WS] Dropping socket after failed write")
			cm.RemoveConnection(gameID, conn)
		}
	}
}

// CloseGame disconnects everyone watching a game that went away.
func (cm *ConnectionManager) CloseGame(gameID string, reason string) {
	cm.Broadcast(gameID, errorMessage(reason))

	cm.mu.Lock()
	defer cm.mu.Unlock()
	for conn := range cm.games[gameID] {
		conn.Close()
	}
	delete(cm.games, gameID)
}
