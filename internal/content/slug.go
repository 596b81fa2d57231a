package content

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Slugify derives an identifier from a title: lower-cased, whitespace to
// hyphens, everything outside [a-z0-9-] dropped.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// uniqueID returns base when free, otherwise base-2, base-3, ...
func uniqueID(base string, taken func(string) bool) string {
	if base == "" {
		base = "untitled"
	}
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// childID builds a section/subsection id from a title slug and a timestamp,
// disambiguated when two creates land in the same second.
func childID(title string, taken func(string) bool) string {
	base := fmt.Sprintf("%s-%d", Slugify(title), time.Now().Unix())
	return uniqueID(base, taken)
}
