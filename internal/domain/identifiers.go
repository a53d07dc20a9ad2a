package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidSlug reports whether s is a URL-safe visit slug: lowercase ASCII letters, digits and hyphens.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ValidDongID reports whether s can address a district page. Any non-blank id is accepted;
// the backend decides whether it exists.
func ValidDongID(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ParsePlaceID parses a place path segment. Only positive decimal integers in canonical form are accepted.
func ParsePlaceID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 || strconv.FormatInt(id, 10) != s {
		return 0, false
	}
	return id, true
}
