package rendering

import (
	"strconv"
	"strings"

	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/domain/game"
)

var _ storefront.PageRenderer = (*Renderer)(nil)

// Renderer fills base documents with game data.
type Renderer struct {
	routePrefix string
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithRoutePrefix sets the first path segment used for {{page_path}}.
func WithRoutePrefix(prefix string) RendererOption {
	return func(r *Renderer) {
		if prefix != "" {
			r.routePrefix = prefix
		}
	}
}

// NewRenderer creates a Renderer
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{routePrefix: storefront.DefaultRoutePrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render fills tmpl for g. A nil or empty template renders the built-in
// compact page. Every value is escaped exactly once.
func (r *Renderer) Render(g *game.Game, tmpl *storefront.Template) string {
	content := builtinContent
	if tmpl != nil && tmpl.Content != "" {
		content = tmpl.Content
	}

	shots := g.EffectiveScreenshots()
	replacer := strings.NewReplacer(
		SlotName, Escape(g.Name),
		SlotID, Escape(g.ID.String()),
		SlotSlug, Escape(g.Slug),
		SlotDescription, Escape(g.Description),
		SlotDeveloper, Escape(g.DeveloperOrDefault()),
		SlotPublisher, Escape(g.PublisherOrDefault()),
		SlotReleaseDate, Escape(g.ReleaseDateOrDefault()),
		SlotMainImage, Escape(g.EffectiveMainImage()),
		SlotPagePath, Escape(storefront.PagePath(r.routePrefix, g.ID, g.Slug)),
		SlotScreenshots, screenshotStrip(shots),
		SlotScreenshotCount, strconv.Itoa(len(shots)),
	)
	return replacer.Replace(content)
}

// screenshotStrip renders one element per screenshot, in order, 0-indexed.
func screenshotStrip(shots []string) string {
	if len(shots) == 0 {
		return ""
	}
	var b strings.Builder
	for i, src := range shots {
		if i > 0 {
			b.WriteByte('\n')
		}
		n := strconv.Itoa(i)
		b.WriteString(`    <div class="highlight_screenshot" data-index="`)
		b.WriteString(n)
		b.WriteString(`"><img src="`)
		b.WriteString(Escape(src))
		b.WriteString(`" alt="Screenshot `)
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(`"></div>`)
	}
	return b.String()
}
