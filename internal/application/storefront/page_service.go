package storefront

import (
	"context"
	"errors"

	"github.com/specterworks/storefront/internal/domain/game"
	"go.uber.org/zap"
)

// Page is a game page ready to be served.
type Page struct {
	HTML   string
	Cached bool
}

// PageService serves game pages, preferring the pre-rendered copy kept in
// the record store. Pages rendered on a miss are not written back.
type PageService struct {
	store     game.RecordStore
	keys      game.KeySpace
	resolver  *Resolver
	templates TemplateSource
	renderer  PageRenderer
	logger    *zap.Logger
}

// NewPageService creates a PageService. store may be nil.
func NewPageService(
	store game.RecordStore,
	keys game.KeySpace,
	resolver *Resolver,
	templates TemplateSource,
	renderer PageRenderer,
	logger *zap.Logger,
) *PageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageService{
		store:     store,
		keys:      keys,
		resolver:  resolver,
		templates: templates,
		renderer:  renderer,
		logger:    logger,
	}
}

// Page returns the page for id or game.ErrGameNotFound.
func (s *PageService) Page(ctx context.Context, id game.GameID) (*Page, error) {
	if s.store != nil {
		html, err := s.store.Get(ctx, s.keys.Page(id))
		switch {
		case err == nil && html != "":
			return &Page{HTML: html, Cached: true}, nil
		case err != nil && !errors.Is(err, game.ErrKeyNotFound):
			s.logger.Warn("Page cache lookup failed, rendering instead",
				zap.String("game_id", id.String()),
				zap.Error(err),
			)
		}
	}

	res := s.resolver.Resolve(ctx, id)
	if !res.Found() {
		return nil, game.ErrGameNotFound
	}

	g := res.Game
	if g.Slug == "" {
		g.Slug = game.SlugFor(g.Name)
	}
	html := s.renderer.Render(g, s.templates.Base(ctx))

	s.logger.Debug("Rendered game page",
		zap.String("game_id", id.String()),
		zap.String("source", string(res.Source)),
	)
	return &Page{HTML: html}, nil
}
