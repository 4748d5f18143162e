package models

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a repository name into a URL-safe identifier: lowercase,
// separators collapsed to single hyphens, everything else stripped.
// "My_Portfolio.Site" becomes "my-portfolio-site". The result is stable for
// a given input, which keeps project ids deterministic across re-ingestions.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.NewReplacer(" ", "-", "_", "-", ".", "-").Replace(slug)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
