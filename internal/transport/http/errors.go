package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// StatusForError maps service errors onto HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidColumn),
		errors.Is(err, domain.ErrColumnFull),
		errors.Is(err, domain.ErrInvalidBoard),
		errors.Is(err, domain.ErrInvalidOptions):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGameOver),
		errors.Is(err, domain.ErrNotYourTurn),
		errors.Is(err, domain.ErrNoLegalMove):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		logError(c, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func logError(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg("[HTTP] Request failed")
}
