package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/domain/game"
	"github.com/specterworks/storefront/internal/infrastructure/logger"
	"github.com/specterworks/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultHealthTimeout = 3 * time.Second

// SystemHandler serves diagnostics: /test-worker and /health.
type SystemHandler struct {
	BaseHandler
	store         game.RecordStore
	assets        storefront.AssetSource
	probePath     string
	healthTimeout time.Duration
	now           func() time.Time
}

// SystemHandlerOption configures a SystemHandler
type SystemHandlerOption func(*SystemHandler)

// WithProbePath sets the asset opened to check the asset source.
func WithProbePath(path string) SystemHandlerOption {
	return func(h *SystemHandler) {
		h.probePath = path
	}
}

// WithHealthTimeout bounds the health checks.
func WithHealthTimeout(d time.Duration) SystemHandlerOption {
	return func(h *SystemHandler) {
		if d > 0 {
			h.healthTimeout = d
		}
	}
}

// NewSystemHandler creates a SystemHandler. store and assets may be nil.
func NewSystemHandler(store game.RecordStore, assets storefront.AssetSource, opts ...SystemHandlerOption) *SystemHandler {
	h := &SystemHandler{
		store:         store,
		assets:        assets,
		probePath:     "/index.html",
		healthTimeout: defaultHealthTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts /test-worker (with and without trailing slash)
// and /health.
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/test-worker", h.WorkerInfo)
	rg.GET("/test-worker/", h.WorkerInfo)
	rg.GET("/health", h.Health)
}

// WorkerInfo godoc
// @ID           workerInfo
// @Summary      Worker diagnostics
// @Description  Reports which collaborators are configured
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.WorkerInfo
// @Router       /test-worker [get]
func (h *SystemHandler) WorkerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.WorkerInfo{
		Message:   "Storefront router is running",
		Pathname:  c.Request.URL.Path,
		HasKV:     h.store != nil,
		HasAssets: h.assets != nil,
		URL:       requestURL(c),
	})
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Pings the record store and probes the asset source. A failing store answers 503, a failing asset source only degrades the status
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Failure      503 {object} dto.HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.healthTimeout)
	defer cancel()

	resp := dto.HealthResponse{
		Status: dto.HealthStatusOK,
		Store:  dto.ComponentNotConfigured,
		Assets: dto.ComponentNotConfigured,
	}
	reqLog := logger.GetGinLogger(c)

	var g errgroup.Group
	if h.store != nil {
		g.Go(func() error {
			resp.Store = dto.ComponentOK
			if pinger, ok := h.store.(game.Pinger); ok {
				if err := pinger.Ping(ctx); err != nil {
					reqLog.Warn("Record store health check failed", zap.Error(err))
					resp.Store = dto.ComponentDown
				}
			}
			return nil
		})
	}
	if h.assets != nil {
		g.Go(func() error {
			resp.Assets = dto.ComponentOK
			asset, err := h.assets.Open(ctx, h.probePath)
			if err != nil {
				reqLog.Warn("Asset source health check failed",
					zap.String("source", h.assets.Name()),
					zap.Error(err),
				)
				resp.Assets = dto.ComponentDown
				return nil
			}
			_ = asset.Body.Close()
			return nil
		})
	}
	_ = g.Wait()

	resp.Time = h.now().UTC().Format(time.RFC3339)
	status := http.StatusOK
	switch {
	case resp.Store == dto.ComponentDown:
		resp.Status = dto.HealthStatusDegraded
		status = http.StatusServiceUnavailable
	case resp.Assets == dto.ComponentDown:
		resp.Status = dto.HealthStatusDegraded
	}
	c.JSON(status, resp)
}

func requestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
