package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/pkg/errors"
)

// MaxDepth caps what a client may ask the engine to search.
const MaxDepth = 12

type GameHandler struct {
	Service *game.Service
	// AnalyzeDepth is used by Analyze when the request names no depth.
	AnalyzeDepth int
	// OnRemove is told about every deleted game, if set.
	OnRemove func(gameID string)
}

func NewGameHandler(svc *game.Service) *GameHandler {
	return &GameHandler{Service: svc}
}

type newGameRequest struct {
	Mode         string `json:"mode"`
	EnginePlayer int    `json:"engine_player"`
	Difficulty   string `json:"difficulty"`
	Depth        int    `json:"depth"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

type analyzeRequest struct {
	Board      [][]int `json:"board" binding:"required"`
	Difficulty string  `json:"difficulty"`
	Depth      int     `json:"depth"`
}

type moveResponse struct {
	Moves []domain.Move `json:"moves"`
	Game  game.Snapshot `json:"game"`
}

type liveGameResponse struct {
	GameID    string            `json:"gameId"`
	Mode      game.Mode         `json:"mode"`
	Status    domain.GameStatus `json:"status"`
	MoveCount int               `json:"moveCount"`
	StartedAt string            `json:"startedAt"`
}

// resolveDepth turns the depth/difficulty pair of a request into a search
// depth. Zero means "use the service default".
func resolveDepth(depth int, difficulty string) (int, error) {
	if depth != 0 {
		if depth < 1 || depth > MaxDepth {
			return 0, errors.Wrapf(domain.ErrInvalidOptions, "depth must be between 1 and %d", MaxDepth)
		}
		return depth, nil
	}
	if difficulty == "" {
		return 0, nil
	}
	if !bot.IsValidDifficulty(difficulty) {
		return 0, errors.Wrapf(domain.ErrInvalidOptions, "unknown difficulty %q", difficulty)
	}
	return bot.DepthForDifficulty(difficulty), nil
}

// CreateGame starts a session; the engine opens if it plays Player1.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req newGameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	depth, err := resolveDepth(req.Depth, req.Difficulty)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.Service.NewGame(c.Request.Context(), game.Options{
		Mode:         game.Mode(req.Mode),
		EnginePlayer: domain.PlayerID(req.EnginePlayer),
		Depth:        depth,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session.Snapshot())
}

// ListGames returns every live session, oldest first
func (h *GameHandler) ListGames(c *gin.Context) {
	games := h.Service.Sessions.List()

	response := make([]liveGameResponse, 0, len(games))
	for _, g := range games {
		response = append(response, liveGameResponse{
			GameID:    g.GameID,
			Mode:      g.Mode,
			Status:    g.Status,
			MoveCount: g.MoveCount,
			StartedAt: g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	c.JSON(http.StatusOK, response)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	session, err := h.Service.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// PlayMove plays the human's column and, against the engine, its reply.
func (h *GameHandler) PlayMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	session, err := h.Service.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	moves, err := session.PlayTurn(c.Request.Context(), *req.Column)
	if err != nil && len(moves) == 0 {
		respondError(c, err)
		return
	}
	if err != nil {
		// the human move stood, only the reply failed
		logError(c, err)
	}

	c.JSON(http.StatusOK, moveResponse{Moves: moves, Game: session.Snapshot()})
}

// EngineMove asks the engine to play for the side to move.
func (h *GameHandler) EngineMove(c *gin.Context) {
	session, err := h.Service.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	move, err := session.PlayEngine(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, moveResponse{Moves: []domain.Move{move}, Game: session.Snapshot()})
}

func (h *GameHandler) ResetGame(c *gin.Context) {
	session, err := h.Service.Restart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	gameID := c.Param("id")
	if err := h.Service.Remove(gameID); err != nil {
		respondError(c, err)
		return
	}
	if h.OnRemove != nil {
		h.OnRemove(gameID)
	}
	c.Status(http.StatusNoContent)
}

// Analyze searches a posted position without touching any session.
func (h *GameHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board is required"})
		return
	}

	depth, err := resolveDepth(req.Depth, req.Difficulty)
	if err != nil {
		respondError(c, err)
		return
	}

	if depth == 0 {
		depth = h.AnalyzeDepth
	}

	board, err := domain.BoardFromCells(req.Board)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.Service.Analyze(c.Request.Context(), board, depth)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"column": res.Column,
		"score":  res.Score,
		"player": board.Turn(),
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
