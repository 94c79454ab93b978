package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/domain/game"
	"github.com/specterworks/storefront/internal/infrastructure/cache"
	"github.com/specterworks/storefront/internal/infrastructure/config"
	"github.com/specterworks/storefront/internal/infrastructure/logger"
	"github.com/specterworks/storefront/internal/infrastructure/persistence"
	"github.com/specterworks/storefront/internal/infrastructure/rendering"
	"github.com/specterworks/storefront/internal/infrastructure/storage"
	"github.com/specterworks/storefront/internal/infrastructure/telemetry"
	"github.com/specterworks/storefront/internal/interfaces/http/handler"
	"github.com/specterworks/storefront/internal/interfaces/http/middleware"
	"github.com/specterworks/storefront/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//	@title			Storefront Router API
//	@version		1.0
//	@description	Game listing pages rendered from stored records, and the JSON API that saves them.
//	@BasePath		/

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting storefront router",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("store", cfg.Store.Driver),
		zap.String("assets", cfg.Assets.Driver),
		zap.String("route_prefix", cfg.Render.RoutePrefix),
	)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log.Named("telemetry"))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
	}()

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log.Named("telemetry"))
	if err != nil {
		return fmt.Errorf("telemetry logs: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = lp.Shutdown(shutdownCtx)
	}()
	log = lp.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log.Named("telemetry"))
	if err != nil {
		return fmt.Errorf("telemetry metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.Warn("Meter provider shutdown failed", zap.Error(err))
		}
	}()
	metrics, err := telemetry.NewStorefrontMetrics(mp.Meter("github.com/specterworks/storefront"))
	if err != nil {
		return fmt.Errorf("telemetry metrics: %w", err)
	}

	store, err := openRecordStore(ctx, cfg, log, tp)
	if err != nil {
		return fmt.Errorf("record store: %w", err)
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn("Record store close failed", zap.Error(err))
			}
		}()
	}

	assets, err := storage.NewAssetSource(&cfg.Assets, log.Named("assets"))
	if err != nil {
		return fmt.Errorf("asset source: %w", err)
	}

	engine := buildEngine(cfg, log, store, assets, tp, metrics)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exited gracefully")
	return nil
}

// openRecordStore connects the configured backend. The none driver returns
// a nil store, which makes the router serve the demo game only.
func openRecordStore(ctx context.Context, cfg *config.Config, log *zap.Logger, tp *telemetry.TracerProvider) (cache.RecordStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		factory := cache.NewRecordStoreFactory(cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		},
			cache.WithLogger(log.Named("store")),
			cache.WithInMemoryFallback(cfg.Store.MemoryFallback),
		)
		return factory.CreateStore()

	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		opts := []persistence.DatabaseOption{
			persistence.WithGormLogger(logger.NewGormLogger(log.Named("gorm"), logger.MapGormLogLevel(cfg.Log.Level))),
		}
		if tp.IsEnabled() {
			opts = append(opts, persistence.WithTracerProvider(tp.Provider()))
		}
		db, err := persistence.NewDatabase(cfg.Store.Driver, &cfg.Database, opts...)
		if err != nil {
			return nil, err
		}
		store := persistence.NewGormRecordStore(db)
		if err := store.AutoMigrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate records table: %w", err)
		}
		log.Info("Using SQL record store", zap.String("driver", cfg.Store.Driver))
		return store, nil

	case config.StoreDriverMemory:
		log.Warn("Using in-memory record store; saved games are lost on restart")
		return cache.NewInMemoryRecordStore(), nil

	case config.StoreDriverNone:
		log.Warn("No record store configured; only the demo game is served")
		return nil, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func buildEngine(
	cfg *config.Config,
	log *zap.Logger,
	store cache.RecordStore,
	assets storefront.AssetSource,
	tp *telemetry.TracerProvider,
	metrics *telemetry.StorefrontMetrics,
) *gin.Engine {
	// A nil cache.RecordStore must reach the services as a nil interface.
	var records game.RecordStore
	if store != nil {
		records = store
	}

	keys := game.NewKeySpace(cfg.Store.KeyPrefix)
	templates := rendering.NewTemplateStore(assets, cfg.Render.BaseTemplatePath, log.Named("templates"))
	renderer := rendering.NewRenderer(rendering.WithRoutePrefix(cfg.Render.RoutePrefix))

	resolver := storefront.NewResolver(records, keys, log.Named("resolver"),
		storefront.WithDemoGameID(game.GameID(cfg.Render.DemoGameID)),
	)
	pages := storefront.NewPageService(records, keys, resolver, templates, renderer, log.Named("pages"))
	saver := storefront.NewSaveService(records, keys, templates, renderer, log.Named("save"),
		storefront.WithRoutePrefix(cfg.Render.RoutePrefix),
	)

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	tracing := middleware.DefaultTracingConfig()
	tracing.ServiceName = cfg.Telemetry.ServiceName
	tracing.Enabled = tp.IsEnabled()

	engine := router.NewEngine(router.EngineConfig{
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS:           cors,
		Security:       middleware.DefaultSecurityConfig(),
		Tracing:        tracing,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
	}, log)

	assetHandler := handler.NewAssetHandler(assets, cfg.Render.LandingPage)
	r := router.NewRouter(engine, router.WithFallback(assetHandler.ServeAsset))
	r.Register(handler.NewSystemHandler(records, assets, handler.WithProbePath(cfg.Render.LandingPage))).
		Register(handler.NewGameHandler(saver, resolver, handler.WithSaveMetrics(metrics))).
		Register(handler.NewPageHandler(pages,
			handler.WithPageRoutePrefix(cfg.Render.RoutePrefix),
			handler.WithCacheMaxAge(cfg.Render.PageCacheMaxAge, cfg.Render.RenderedMaxAge),
			handler.WithTracer(tp.Tracer("storefront/pages")),
			handler.WithPageMetrics(metrics),
		)).
		Register(handler.NewDocsHandler(middleware.DocsConfig{
			Enabled:    cfg.Docs.Enabled,
			AllowedIPs: cfg.Docs.AllowedIPs,
		})).
		Register(assetHandler)
	r.Setup()

	return engine
}
