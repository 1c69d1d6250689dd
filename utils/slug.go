package utils

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a free-form title or user-supplied slug into its canonical
// URL-safe form: lowercase ASCII letters, digits and single hyphens, with no
// leading or trailing hyphen. The same rule is applied to properties and
// projects. Returns "" when nothing usable remains.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
