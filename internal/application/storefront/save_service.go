package storefront

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/specterworks/storefront/internal/domain/game"
	"go.uber.org/zap"
)

// IDGenerator produces ids for games submitted without one.
type IDGenerator func() game.GameID

// RandomGameID returns a uniformly random seven digit id.
// Collisions with existing ids are not checked.
func RandomGameID() game.GameID {
	return game.GameID(strconv.Itoa(1_000_000 + rand.IntN(9_000_000)))
}

// SaveService validates, renders and persists submitted games.
type SaveService struct {
	store       game.RecordStore
	keys        game.KeySpace
	templates   TemplateSource
	renderer    PageRenderer
	validate    *validator.Validate
	newID       IDGenerator
	routePrefix string
	logger      *zap.Logger
}

// SaveServiceOption configures a SaveService
type SaveServiceOption func(*SaveService)

// WithIDGenerator replaces RandomGameID.
func WithIDGenerator(gen IDGenerator) SaveServiceOption {
	return func(s *SaveService) {
		s.newID = gen
	}
}

// WithRoutePrefix sets the first path segment of page URLs.
func WithRoutePrefix(prefix string) SaveServiceOption {
	return func(s *SaveService) {
		if prefix != "" {
			s.routePrefix = prefix
		}
	}
}

// NewSaveService creates a SaveService. store may be nil, in which case
// games are rendered but not persisted.
func NewSaveService(
	store game.RecordStore,
	keys game.KeySpace,
	templates TemplateSource,
	renderer PageRenderer,
	logger *zap.Logger,
	opts ...SaveServiceOption,
) *SaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SaveService{
		store:       store,
		keys:        keys,
		templates:   templates,
		renderer:    renderer,
		validate:    newInputValidator(),
		newID:       RandomGameID,
		routePrefix: DefaultRoutePrefix,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("gameid", func(fl validator.FieldLevel) bool {
		id := game.GameID(fl.Field().String())
		return id.IsZero() || id.Valid()
	})
	return v
}

// Save validates input, assigns a missing id and slug, renders the page
// and writes record, page and index. A failed write is reported through
// the result, not as an error.
func (s *SaveService) Save(ctx context.Context, input SaveGameInput) (*SaveGameResult, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	g := input.toGame()
	if g.ID.IsZero() {
		g.ID = s.newID()
	}
	if g.Slug == "" {
		g.Slug = game.SlugFor(g.Name)
	}

	html := s.renderer.Render(g, s.templates.Base(ctx))

	result := &SaveGameResult{
		ID:   g.ID,
		Slug: g.Slug,
		URL:  PagePath(s.routePrefix, g.ID, g.Slug),
	}

	if s.store == nil {
		result.Message = MessageSavedLocally
		return result, nil
	}

	if err := s.persist(ctx, g, html); err != nil {
		s.logger.Warn("Failed to persist game",
			zap.String("game_id", g.ID.String()),
			zap.Error(err),
		)
		result.Message = MessageStoreWriteFailed
		return result, nil
	}

	s.logger.Info("Game saved",
		zap.String("game_id", g.ID.String()),
		zap.String("slug", g.Slug),
	)
	result.SavedToStore = true
	result.Message = MessageSavedToStore
	return result, nil
}

func (s *SaveService) checkInput(input SaveGameInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate game: %w", err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return game.ErrMissingRequiredFields.Wrap(verrs)
		}
	}
	return game.ErrInvalidGameID.Wrap(verrs)
}

// persist writes record, page and index in that order. Stores that
// implement game.BatchWriter commit the three together.
func (s *SaveService) persist(ctx context.Context, g *game.Game, html string) error {
	index, err := s.loadIndex(ctx)
	if err != nil {
		return err
	}

	record, err := g.Encode()
	if err != nil {
		return err
	}
	encodedIndex, err := index.Upsert(g.Summary()).Encode()
	if err != nil {
		return err
	}

	entries := []game.KeyValue{
		{Key: s.keys.Record(g.ID), Value: record},
		{Key: s.keys.Page(g.ID), Value: html},
		{Key: s.keys.Index(), Value: encodedIndex},
	}

	if bw, ok := s.store.(game.BatchWriter); ok {
		return bw.PutAll(ctx, entries)
	}
	for _, e := range entries {
		if err := s.store.Put(ctx, e.Key, e.Value); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.Key, err)
		}
	}
	return nil
}

func (s *SaveService) loadIndex(ctx context.Context) (game.Index, error) {
	raw, err := s.store.Get(ctx, s.keys.Index())
	if errors.Is(err, game.ErrKeyNotFound) {
		return game.Index{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game index: %w", err)
	}
	// An unreadable index is kept as is; rewriting it would drop every
	// other game's summary.
	index, err := game.ParseIndex(raw)
	if err != nil {
		return nil, err
	}
	return index, nil
}
