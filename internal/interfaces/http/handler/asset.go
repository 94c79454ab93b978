package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AssetHandler serves the landing page and passes every unrouted request
// through to the asset source.
type AssetHandler struct {
	BaseHandler
	assets      storefront.AssetSource
	landingPage string
}

// NewAssetHandler creates an AssetHandler. assets may be nil, in which
// case every asset request is a 404.
func NewAssetHandler(assets storefront.AssetSource, landingPage string) *AssetHandler {
	if landingPage == "" {
		landingPage = "/index.html"
	}
	return &AssetHandler{assets: assets, landingPage: landingPage}
}

// RegisterRoutes mounts the landing page on /.
func (h *AssetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.ServeLanding)
	rg.HEAD("/", h.ServeLanding)
}

// ServeLanding serves the landing page directly, without a redirect.
func (h *AssetHandler) ServeLanding(c *gin.Context) {
	h.serve(c, h.landingPage)
}

// ServeAsset serves the request path from the asset source. Only GET and
// HEAD are served.
func (h *AssetHandler) ServeAsset(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Header("Allow", "GET, HEAD")
		h.PlainText(c, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h.serve(c, c.Request.URL.Path)
}

func (h *AssetHandler) serve(c *gin.Context, path string) {
	if h.assets == nil {
		h.PlainText(c, http.StatusNotFound, "Not found")
		return
	}

	asset, err := h.assets.Open(c.Request.Context(), path)
	if err != nil {
		if errors.Is(err, storefront.ErrAssetNotFound) {
			h.PlainText(c, http.StatusNotFound, "Not found")
			return
		}
		logger.GetGinLogger(c).Warn("Asset source failed",
			zap.String("source", h.assets.Name()),
			zap.String("asset_path", path),
			zap.Error(err),
		)
		h.PlainText(c, http.StatusBadGateway, "Asset source unavailable")
		return
	}
	defer asset.Body.Close()

	extra := map[string]string{}
	if !asset.ModTime.IsZero() {
		extra["Last-Modified"] = asset.ModTime.UTC().Format(http.TimeFormat)
	}
	size := asset.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, asset.ContentType, asset.Body, extra)
}
