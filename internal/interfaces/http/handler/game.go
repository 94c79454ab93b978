package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/domain/game"
	"github.com/specterworks/storefront/internal/infrastructure/logger"
	"github.com/specterworks/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// GameSaver saves submitted games.
type GameSaver interface {
	Save(ctx context.Context, input storefront.SaveGameInput) (*storefront.SaveGameResult, error)
}

// GameFinder looks up games and the game index.
type GameFinder interface {
	Resolve(ctx context.Context, id game.GameID) storefront.Resolution
	Index(ctx context.Context) game.Index
}

var (
	_ GameSaver  = (*storefront.SaveService)(nil)
	_ GameFinder = (*storefront.Resolver)(nil)
)

// SaveMetrics counts accepted submissions.
type SaveMetrics interface {
	GameSaved(ctx context.Context, savedToStore bool)
}

// GameHandler serves the JSON game API.
type GameHandler struct {
	BaseHandler
	saver   GameSaver
	finder  GameFinder
	metrics SaveMetrics
}

// GameHandlerOption configures a GameHandler
type GameHandlerOption func(*GameHandler)

// WithSaveMetrics records every accepted submission on m.
func WithSaveMetrics(m SaveMetrics) GameHandlerOption {
	return func(h *GameHandler) {
		h.metrics = m
	}
}

// NewGameHandler creates a GameHandler
func NewGameHandler(saver GameSaver, finder GameFinder, opts ...GameHandlerOption) *GameHandler {
	h := &GameHandler{saver: saver, finder: finder}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the game API under /api.
func (h *GameHandler) RegisterRoutes(rg *gin.RouterGroup) {
	api := rg.Group("/api")
	api.POST("/save-game", h.SaveGame)
	api.GET("/get-game", h.GetGame)
	api.GET("/games", h.ListGames)
}

// SaveGame godoc
// @ID           saveGame
// @Summary      Save a game
// @Description  Validates and renders a submitted game, then writes its record, page and index entry. A failed store write still answers 200 with savedToKV=false
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        request body storefront.SaveGameInput true "Game to save"
// @Success      200 {object} dto.SaveGameResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/save-game [post]
func (h *GameHandler) SaveGame(c *gin.Context) {
	var input storefront.SaveGameInput
	// Unparseable bodies are not validation failures; they answer 500.
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.saver.Save(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.GameSaved(c.Request.Context(), result.SavedToStore)
	}
	logger.GetGinLogger(c).Info("Game submitted",
		zap.String("game_id", result.ID.String()),
		zap.Bool("saved_to_store", result.SavedToStore),
	)

	c.JSON(http.StatusOK, dto.SaveGameResponse{
		Success:   true,
		SavedToKV: result.SavedToStore,
		Message:   result.Message,
		Game: dto.SavedGame{
			ID:   result.ID.String(),
			Slug: result.Slug,
			URL:  result.URL,
		},
	})
}

// GetGame godoc
// @ID           getGame
// @Summary      Get a game
// @Description  Returns the stored record for a game, or the demo game for the reserved demo id
// @Tags         games
// @Produce      json
// @Param        id query string true "Numeric game ID"
// @Success      200 {object} game.Game
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/get-game [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	id := game.GameID(c.Query("id"))
	if id.IsZero() {
		h.HandleError(c, game.ErrGameIDRequired)
		return
	}

	res := h.finder.Resolve(c.Request.Context(), id)
	if !res.Found() {
		h.HandleError(c, game.ErrGameNotFound)
		return
	}

	c.JSON(http.StatusOK, res.Game)
}

// ListGames godoc
// @ID           listGames
// @Summary      List saved games
// @Description  Returns the summaries of every saved game. A missing or unreadable index is an empty list
// @Tags         games
// @Produce      json
// @Success      200 {array} game.Summary
// @Router       /api/games [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	index := h.finder.Index(c.Request.Context())
	if index == nil {
		index = game.Index{}
	}
	c.JSON(http.StatusOK, index)
}
