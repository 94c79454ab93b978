package rendering

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape replaces the five HTML-significant characters with entities.
// It is not idempotent: Escape(Escape("<")) is "&amp;lt;".
func Escape(s string) string {
	if s == "" {
		return ""
	}
	return htmlEscaper.Replace(s)
}
