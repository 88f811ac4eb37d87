package folio

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// Slugify converts a title to a URL-safe slug: lowercase, every run of
// characters outside [a-z0-9] collapsed to a single hyphen, leading and
// trailing hyphens stripped. All-symbol input yields "".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SplitList parses a comma-delimited form value ("Swift, SwiftUI,  CoreData ,, ")
// into trimmed entries with empties dropped.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return FilterEmpty(parts)
}

// JoinList is the inverse of SplitList for display and round-tripping.
func JoinList(vals []string) string {
	return strings.Join(vals, ", ")
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

// objectKey builds the storage key for an uploaded file:
// "<slug>-<millis><ext>", or "<slug>-<purpose>-<millis><ext>" when a
// purpose suffix distinguishes multiple objects per entity (e.g. "icon").
// The timestamp keeps replacements from colliding with live objects.
func objectKey(slug, purpose, ext string) string {
	ts := time.Now().UnixMilli()
	if purpose == "" {
		return fmt.Sprintf("%s-%d%s", slug, ts, ext)
	}
	return fmt.Sprintf("%s-%s-%d%s", slug, purpose, ts, ext)
}
