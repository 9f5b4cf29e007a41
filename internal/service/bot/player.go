package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/rs/zerolog/log"
)

// Cache stores finished searches. Get returns an empty string and no error
// for a key it does not hold.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Player picks engine moves, remembering finished searches in an optional
// cache. Searches are deterministic so a cached answer is the one a fresh
// search would give.
type Player struct {
	cache Cache
	ttl   time.Duration
}

// NewPlayer builds a Player. cache may be nil.
func NewPlayer(cache Cache, ttl time.Duration) *Player {
	return &Player{cache: cache, ttl: ttl}
}

func CacheKey(board *domain.Board, depth int, side domain.PlayerID) string {
	return fmt.Sprintf("c4:search:%d:%d:%s", depth, side, board.Code())
}

// BestMove returns the engine's column for side on board at depth plies.
func (p *Player) BestMove(ctx context.Context, board *domain.Board, depth int, side domain.PlayerID) (Result, error) {
	engine := NewEngine(depth, side)
	if p.cache == nil {
		return engine.BestMove(board)
	}
	if board.IsFull() {
		return Result{}, domain.ErrNoLegalMove
	}

	key := CacheKey(board, engine.Depth, side)
	raw, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("key", key).Msg("[BOT] cache read failed, searching")
	case raw != "":
		if res, ok := decodeResult(raw); ok && board.Height(res.Column) < domain.Rows {
			log.Debug().Str("key", key).Int("column", res.Column).Msg("[BOT] cache hit")
			return res, nil
		}
		log.Warn().Str("key", key).Str("value", raw).Msg("[BOT] ignoring bad cache entry")
	}

	res, err := engine.BestMove(board)
	if err != nil {
		return Result{}, err
	}

	if err := p.cache.Set(ctx, key, encodeResult(res), p.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[BOT] cache write failed")
	}
	return res, nil
}

func encodeResult(res Result) string {
	return fmt.Sprintf("%d:%d", res.Column, res.Score)
}

func decodeResult(raw string) (Result, bool) {
	colStr, scoreStr, found := strings.Cut(raw, ":")
	if !found {
		return Result{}, false
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || !domain.IsValidColumn(col) {
		return Result{}, false
	}
	score, err := strconv.Atoi(scoreStr)
	if err != nil {
		return Result{}, false
	}
	return Result{Column: col, Score: score}, true
}
