package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the game API on router.
func RegisterRoutes(router gin.IRouter, h *GameHandler) {
	router.GET("/healthz", Health)

	api := router.Group("/api")
	{
		api.POST("/games", h.CreateGame)
		api.GET("/games", h.ListGames)
		api.GET("/games/:id", h.GetGame)
		api.POST("/games/:id/moves", h.PlayMove)
		api.POST("/games/:id/engine", h.EngineMove)
		api.POST("/games/:id/reset", h.ResetGame)
		api.DELETE("/games/:id", h.DeleteGame)
		api.POST("/analyze", h.Analyze)
	}
}
