package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/domain/game"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PageProvider returns rendered game pages.
type PageProvider interface {
	Page(ctx context.Context, id game.GameID) (*storefront.Page, error)
}

var _ PageProvider = (*storefront.PageService)(nil)

// Page cache header values
const (
	PageCacheHeader = "X-Page-Cache"
	PageCacheHit    = "HIT"
	PageCacheMiss   = "MISS"
)

// pagePathPattern matches "{digits}/{anything}" after the route prefix.
var pagePathPattern = regexp.MustCompile(`^(\d+)/(.+)$`)

// PageHandler serves /{prefix}/{id}/{slug}/ pages.
type PageHandler struct {
	BaseHandler
	pages          PageProvider
	prefix         string
	cachedMaxAge   time.Duration
	renderedMaxAge time.Duration
	tracer         trace.Tracer
	metrics        PageMetrics
}

// PageMetrics counts served pages.
type PageMetrics interface {
	PageServed(ctx context.Context, cached bool)
}

// PageHandlerOption configures a PageHandler
type PageHandlerOption func(*PageHandler)

// WithPageRoutePrefix sets the first path segment of page routes.
func WithPageRoutePrefix(prefix string) PageHandlerOption {
	return func(h *PageHandler) {
		if p := strings.Trim(prefix, "/"); p != "" {
			h.prefix = p
		}
	}
}

// WithCacheMaxAge sets the Cache-Control max-age of pages served from the
// store and of pages rendered on demand.
func WithCacheMaxAge(cached, rendered time.Duration) PageHandlerOption {
	return func(h *PageHandler) {
		h.cachedMaxAge = cached
		h.renderedMaxAge = rendered
	}
}

// WithTracer replaces the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) PageHandlerOption {
	return func(h *PageHandler) {
		h.tracer = tracer
	}
}

// WithPageMetrics records every served page on m.
func WithPageMetrics(m PageMetrics) PageHandlerOption {
	return func(h *PageHandler) {
		h.metrics = m
	}
}

// NewPageHandler creates a PageHandler
func NewPageHandler(pages PageProvider, opts ...PageHandlerOption) *PageHandler {
	h := &PageHandler{
		pages:          pages,
		prefix:         storefront.DefaultRoutePrefix,
		cachedMaxAge:   24 * time.Hour,
		renderedMaxAge: time.Minute,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer("github.com/specterworks/storefront/internal/interfaces/http/handler")
	}
	return h
}

// RegisterRoutes mounts the page route. /{prefix} without a trailing
// slash is not matched and reaches the asset fallback.
func (h *PageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	route := "/" + h.prefix + "/*path"
	rg.GET(route, h.ServePage)
	rg.HEAD(route, h.ServePage)
}

// ServePage serves the page named by the path suffix. Pages found in the
// store are sent verbatim; otherwise the game is resolved and rendered.
func (h *PageHandler) ServePage(c *gin.Context) {
	id, ok := parsePagePath(c.Param("path"))
	if !ok {
		h.PlainText(c, http.StatusNotFound,
			fmt.Sprintf("Invalid game path. Expected: /%s/{id}/{name}/", h.prefix))
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "storefront.page",
		trace.WithAttributes(attribute.String("game.id", id.String())),
	)
	defer span.End()

	page, err := h.pages.Page(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, game.ErrGameNotFound) {
			h.PlainText(c, http.StatusNotFound, "Game not found: "+id.String())
			return
		}
		h.InternalError(c, err)
		return
	}
	span.SetAttributes(attribute.Bool("page.cached", page.Cached))

	maxAge, cacheState := h.renderedMaxAge, PageCacheMiss
	if page.Cached {
		maxAge, cacheState = h.cachedMaxAge, PageCacheHit
	}
	if h.metrics != nil {
		h.metrics.PageServed(ctx, page.Cached)
	}
	c.Header("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
	c.Header(PageCacheHeader, cacheState)
	c.Data(http.StatusOK, contentTypeHTML, []byte(page.HTML))
}

// parsePagePath extracts the id from "/{id}/{rest}", ignoring one
// trailing slash. The rest is not checked against the stored slug.
func parsePagePath(suffix string) (game.GameID, bool) {
	rest := strings.TrimPrefix(suffix, "/")
	rest = strings.TrimSuffix(rest, "/")
	m := pagePathPattern.FindStringSubmatch(rest)
	if m == nil {
		return "", false
	}
	return game.GameID(m[1]), true
}
