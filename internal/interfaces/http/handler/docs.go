package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/specterworks/storefront/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/specterworks/storefront/docs"
)

// DocsHandler serves the Swagger UI and the generated API document.
type DocsHandler struct {
	access gin.HandlerFunc
}

// NewDocsHandler creates a DocsHandler guarded by cfg.
func NewDocsHandler(cfg middleware.DocsConfig) *DocsHandler {
	return &DocsHandler{access: middleware.DocsAccess(cfg)}
}

// RegisterRoutes mounts /swagger/*any. The route exists even when docs
// are disabled so that /swagger never falls through to the assets.
func (h *DocsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/swagger/*any", h.access, ginSwagger.WrapHandler(swaggerFiles.Handler))
}
