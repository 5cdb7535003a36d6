package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// aiName is the display name used for the engine in results and analytics.
const aiName = "AI"

// App wires the hub, persistence and analytics behind the HTTP surface.
type App struct {
	Config    Config
	Hub       *Hub
	Store     *Store
	Analytics *Analytics
}

// NewApp builds the application from config, connecting to Postgres and
// Kafka when configured.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	store, err := NewStore(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return &App{
		Config:    cfg,
		Hub:       NewHub(),
		Store:     store,
		Analytics: NewAnalytics(cfg.KafkaBrokers, cfg.KafkaTopic),
	}, nil
}

// Router builds the gin engine with all routes registered.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), cors())

	router.GET("/health", a.handleHealth)
	router.GET("/ws", gin.WrapF(a.handleWS))
	router.GET("/leaderboard", a.handleLeaderboard)
	router.GET("/recent", a.handleRecent)
	return router
}

// Run serves until the listener fails.
func (a *App) Run() error {
	addr := ":" + a.Config.Port
	log.Info().Str("addr", addr).
		Bool("postgres", a.Store.Enabled()).
		Bool("kafka", a.Analytics.Enabled()).
		Msg("server listening")
	return a.Router().Run(addr)
}

// Close releases the store and analytics connections.
func (a *App) Close() {
	a.Store.Close()
	a.Analytics.Close()
}

func (a *App) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"games":    a.Hub.Count(),
		"postgres": a.Store.Enabled(),
		"kafka":    a.Analytics.Enabled(),
	})
}

func (a *App) handleLeaderboard(c *gin.Context) {
	entries, err := a.Store.QueryLeaderboard(c.Request.Context(), queryLimit(c))
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (a *App) handleRecent(c *gin.Context) {
	games, err := a.Store.QueryRecentGames(c.Request.Context(), queryLimit(c))
	if err != nil {
		log.Error().Err(err).Msg("recent games query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		return 10
	}
	return limit
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
