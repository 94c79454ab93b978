// Package rendering turns game records into storefront pages.
//
// A base document carries named slots such as {{name}} and {{screenshots}}.
// Renderer fills every slot in a single left-to-right pass, so text inserted
// for one slot is never matched against another. Base documents come from
// the asset source through TemplateStore, with an embedded compact page as
// the fallback.
//
// Example usage:
//
//	store := NewTemplateStore(assets, "/templates/game.html", logger)
//	renderer := NewRenderer(WithRoutePrefix("app"))
//	html := renderer.Render(g, store.Base(ctx))
package rendering
