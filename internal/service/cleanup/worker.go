package cleanup

import (
	"context"
	"time"

	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/rs/zerolog/log"
)

type Worker struct {
	SessionManager *game.SessionManager
	IdleTTL        time.Duration
	Interval       time.Duration
}

func NewWorker(sm *game.SessionManager, idleTTL, interval time.Duration) *Worker {
	return &Worker{SessionManager: sm, IdleTTL: idleTTL, Interval: interval}
}

// Start runs a cleanup right away and then every Interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("[CLEANUP] Background worker stopped")
				return
			case <-ticker.C:
				w.runCleanup()
			}
		}
	}()
	log.Info().Dur("interval", w.Interval).Dur("idle_ttl", w.IdleTTL).Msg("[CLEANUP] Background worker started")
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup() int {
	log.Debug().Msg("[CLEANUP] Starting scheduled cleanup task...")
	return w.SessionManager.CleanupOldSessions(w.IdleTTL)
}
