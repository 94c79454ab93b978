// Package storefront implements the storefront use cases: resolving games,
// serving their pages and saving new ones.
package storefront

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/specterworks/storefront/internal/domain/game"
)

// Asset errors
var (
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAssetsNotConfigured = errors.New("asset source not configured")
)

// Asset is a static file opened from an AssetSource. Callers must close Body.
type Asset struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// AssetSource serves static files (landing page, base template, images).
// It is implemented by the infrastructure layer (local directory, S3, MinIO).
type AssetSource interface {
	// Open returns the asset at path or ErrAssetNotFound.
	Open(ctx context.Context, path string) (*Asset, error)
	// Name identifies the backend in logs and health output.
	Name() string
}

// TemplateOrigin tells where a base template came from.
type TemplateOrigin string

const (
	TemplateOriginAssets  TemplateOrigin = "assets"
	TemplateOriginBuiltin TemplateOrigin = "builtin"
)

// Template is a base document with named slots.
type Template struct {
	ID      string
	Origin  TemplateOrigin
	Path    string
	Content string
}

// TemplateSource resolves the base template used for rendering.
// It never fails: when nothing better is available it returns the
// built-in skeleton.
type TemplateSource interface {
	Base(ctx context.Context) *Template
}

// PageRenderer fills a base template for one game. The game must carry
// its id and slug.
type PageRenderer interface {
	Render(g *game.Game, tmpl *Template) string
}

// DefaultRoutePrefix is the first path segment of game pages.
const DefaultRoutePrefix = "app"

// PagePath returns the public path of a game page: /{prefix}/{id}/{slug}/.
func PagePath(prefix string, id game.GameID, slug string) string {
	if prefix == "" {
		prefix = DefaultRoutePrefix
	}
	var b strings.Builder
	b.Grow(len(prefix) + len(id) + len(slug) + 4)
	b.WriteByte('/')
	b.WriteString(prefix)
	b.WriteByte('/')
	b.WriteString(string(id))
	b.WriteByte('/')
	b.WriteString(slug)
	b.WriteByte('/')
	return b.String()
}
