package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-engine/internal/config"
	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/repository/redis"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/cleanup"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	transportHttp "github.com/iamasit07/connect4-engine/internal/transport/http"
	"github.com/iamasit07/connect4-engine/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-engine/internal/transport/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Configuration and logging
	cfg := config.LoadConfig()
	cfg.SetupLogging()

	// 2. Redis search cache (optional)
	if err := redis.InitRedis(cfg); err != nil {
		log.Warn().Err(err).Msg("[REDIS] Failed to initialize Redis")
	}
	defer redis.CloseRedis()

	var cache bot.Cache
	if redis.IsRedisEnabled() && redis.RedisClient != nil {
		cache = redis.NewRedisCache(redis.RedisClient)
	}

	// 3. Engine and game service
	engine := bot.NewPlayer(cache, cfg.SearchCacheTTL())
	gameService := game.NewService(engine, game.Options{
		Mode:         game.ModeVsEngine,
		EnginePlayer: domain.PlayerID(cfg.EnginePlayer),
		Depth:        bot.DepthForDifficulty(cfg.DefaultDifficulty),
	})

	// 4. Background workers
	ctx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	cleanupWorker := cleanup.NewWorker(gameService.Sessions, cfg.SessionIdleTTL(), cfg.CleanupInterval())
	cleanupWorker.Start(ctx)

	// 5. Handlers
	connManager := websocket.NewConnectionManager()
	wsHandler := websocket.NewHandler(connManager, gameService, cfg.AllowedOrigins)

	gameHandler := transportHttp.NewGameHandler(gameService)
	gameHandler.AnalyzeDepth = cfg.SearchDepth
	gameHandler.OnRemove = func(gameID string) {
		connManager.CloseGame(gameID, "Game removed")
	}

	// 6. Router
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	transportHttp.RegisterRoutes(router, gameHandler)
	router.GET("/ws/games/:id", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Int("engine_player", cfg.EnginePlayer).
			Str("difficulty", cfg.DefaultDifficulty).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Server is shutting down...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
