package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/domain/game"
	"github.com/specterworks/storefront/internal/infrastructure/cache"
	"github.com/specterworks/storefront/internal/infrastructure/logger"
	"github.com/specterworks/storefront/internal/infrastructure/rendering"
	"github.com/specterworks/storefront/internal/infrastructure/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errStoreDown = errors.New("connection refused")

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) { return "", errStoreDown }
func (brokenStore) Put(context.Context, string, string) error   { return errStoreDown }
func (brokenStore) Ping(context.Context) error                  { return errStoreDown }

// brokenAssets fails every call.
type brokenAssets struct{}

func (brokenAssets) Open(context.Context, string) (*storefront.Asset, error) {
	return nil, errors.New("bucket unreachable")
}
func (brokenAssets) Name() string { return "broken" }

func testAssets() storefront.AssetSource {
	return storage.NewFSAssetSourceFromFS(fstest.MapFS{
		"index.html":   {Data: []byte("<!DOCTYPE html><html><body>constructor</body></html>")},
		"css/site.css": {Data: []byte("body{}")},
		"app":          {Data: []byte("static app file")},
	}, "test")
}

type testEnv struct {
	engine *gin.Engine
	logs   *observer.ObservedLogs
}

type envOptions struct {
	store       game.RecordStore
	assets      storefront.AssetSource
	prefix      string
	cachedAge   time.Duration
	renderedAge time.Duration
}

// newTestEnv wires the real services and handlers on a bare engine.
func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	prefix := opts.prefix
	if prefix == "" {
		prefix = storefront.DefaultRoutePrefix
	}
	keys := game.NewKeySpace("game")
	templates := rendering.NewTemplateStore(opts.assets, rendering.DefaultBaseTemplatePath, log)
	renderer := rendering.NewRenderer(rendering.WithRoutePrefix(prefix))
	resolver := storefront.NewResolver(opts.store, keys, log)
	pages := storefront.NewPageService(opts.store, keys, resolver, templates, renderer, log)
	saver := storefront.NewSaveService(opts.store, keys, templates, renderer, log,
		storefront.WithRoutePrefix(prefix),
		storefront.WithIDGenerator(func() game.GameID { return "1234567" }),
	)

	pageOpts := []PageHandlerOption{WithPageRoutePrefix(prefix)}
	if opts.cachedAge > 0 || opts.renderedAge > 0 {
		pageOpts = append(pageOpts, WithCacheMaxAge(opts.cachedAge, opts.renderedAge))
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.Use(logger.GinMiddleware(log))

	assetHandler := NewAssetHandler(opts.assets, "/index.html")
	for _, r := range []interface{ RegisterRoutes(*gin.RouterGroup) }{
		NewGameHandler(saver, resolver),
		NewPageHandler(pages, pageOpts...),
		NewSystemHandler(opts.store, opts.assets),
		assetHandler,
	} {
		r.RegisterRoutes(&engine.RouterGroup)
	}
	engine.NoRoute(assetHandler.ServeAsset)

	return &testEnv{engine: engine, logs: logs}
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, target, "")
}

func newMemoryStore() *cache.InMemoryRecordStore {
	return cache.NewInMemoryRecordStore()
}
