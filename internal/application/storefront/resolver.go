package storefront

import (
	"context"
	"errors"

	"github.com/specterworks/storefront/internal/domain/game"
	"go.uber.org/zap"
)

// ResolutionSource tells which source answered a lookup.
type ResolutionSource string

const (
	SourceStore   ResolutionSource = "store"
	SourceFixture ResolutionSource = "fixture"
	SourceNone    ResolutionSource = "none"
)

// Resolution is the outcome of a game lookup. StoreErr is set when the
// store failed and the lookup carried on as if the key were absent.
type Resolution struct {
	Game     *game.Game
	Source   ResolutionSource
	StoreErr error
}

// Found reports whether a game was resolved.
func (r Resolution) Found() bool {
	return r.Game != nil
}

// Resolver looks games up in the record store and falls back to the
// built-in demo game.
type Resolver struct {
	store  game.RecordStore
	keys   game.KeySpace
	demoID game.GameID
	logger *zap.Logger
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithDemoGameID sets the id the built-in demo game answers to.
func WithDemoGameID(id game.GameID) ResolverOption {
	return func(r *Resolver) {
		r.demoID = id
	}
}

// NewResolver creates a Resolver. store may be nil when no record store
// is configured.
func NewResolver(store game.RecordStore, keys game.KeySpace, logger *zap.Logger, opts ...ResolverOption) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		store:  store,
		keys:   keys,
		demoID: game.DemoGameID,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks up id. Store failures are logged and treated as a miss.
func (r *Resolver) Resolve(ctx context.Context, id game.GameID) Resolution {
	res := Resolution{Source: SourceNone}

	if r.store != nil {
		raw, err := r.store.Get(ctx, r.keys.Record(id))
		switch {
		case err == nil:
			g, decodeErr := game.DecodeGame(raw)
			if decodeErr == nil {
				if g.ID.IsZero() {
					g.ID = id
				}
				return Resolution{Game: g, Source: SourceStore}
			}
			res.StoreErr = decodeErr
			r.logger.Warn("Stored game record is unreadable",
				zap.String("game_id", id.String()),
				zap.Error(decodeErr),
			)
		case errors.Is(err, game.ErrKeyNotFound):
		default:
			res.StoreErr = err
			r.logger.Warn("Record store lookup failed, treating as miss",
				zap.String("game_id", id.String()),
				zap.Error(err),
			)
		}
	}

	if id == r.demoID {
		res.Game = game.DemoGame(id)
		res.Source = SourceFixture
	}
	return res
}

// Index returns the game index. A missing index, an unreadable one or an
// unavailable store all yield an empty index.
func (r *Resolver) Index(ctx context.Context) game.Index {
	if r.store == nil {
		return game.Index{}
	}
	raw, err := r.store.Get(ctx, r.keys.Index())
	if err != nil {
		if !errors.Is(err, game.ErrKeyNotFound) {
			r.logger.Warn("Failed to read game index", zap.Error(err))
		}
		return game.Index{}
	}
	ix, err := game.ParseIndex(raw)
	if err != nil {
		r.logger.Warn("Stored game index is unreadable", zap.Error(err))
		return game.Index{}
	}
	return ix
}
