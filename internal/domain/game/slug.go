package game

import (
	"regexp"
	"strings"
)

// FallbackSlug is used when a name contains no ASCII letters or digits.
const FallbackSlug = "game"

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends. Non-ASCII
// letters are not transliterated.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = nonSlugRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugFor is Slugify with FallbackSlug for names that slugify to nothing.
func SlugFor(name string) string {
	if s := Slugify(name); s != "" {
		return s
	}
	return FallbackSlug
}
