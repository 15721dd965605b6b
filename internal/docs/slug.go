package docs

import (
	"fmt"
	"regexp"
	"strings"
)

// refPattern is the doc_ref grammar: <prefix>_<3-digit-id>_<slug>.
var refPattern = regexp.MustCompile(`^(req|item|task|spec)_(\d{3})_([a-z0-9_]+)$`)

// RefPattern matches doc_refs embedded anywhere in document text.
// Used for outgoing-reference discovery.
var RefPattern = regexp.MustCompile(`\b(req|item|task|spec)_\d{3}_[a-z0-9_]+\b`)

// Slugify derives a filesystem-safe slug from a title.
// Example: "Fix login flow!" → "fix_login_flow"
//
// Rules:
//   - Lowercase
//   - Any run of non-alphanumeric characters becomes a single underscore
//   - Leading/trailing underscores are trimmed
//
// Slugify is deterministic and idempotent. A title that yields an empty
// slug (all punctuation, all whitespace) fails with InvalidTitleError.
func Slugify(title string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	prevUnderscore := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevUnderscore = false
		default:
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "", &InvalidTitleError{Title: title}
	}
	return slug, nil
}

// FormatRef builds a doc_ref from its parts: prefix_NNN_slug.
func FormatRef(kind Kind, id int, slug string) string {
	return fmt.Sprintf("%s_%03d_%s", kind.Prefix(), id, slug)
}

// ParseRef splits a doc_ref into kind, numeric ID, and slug.
func ParseRef(ref string) (Kind, int, string, error) {
	m := refPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", 0, "", fmt.Errorf("invalid doc_ref %q: want <prefix>_<NNN>_<slug>", ref)
	}
	kind, _ := KindForPrefix(m[1])
	id := 0
	for _, c := range m[2] {
		id = id*10 + int(c-'0')
	}
	return kind, id, m[3], nil
}

// RefSlug returns the slug portion of a doc_ref, or the whole string when
// it does not follow the doc_ref grammar. Slug equality (ignoring prefix
// and ID) is what the reference linker matches on.
func RefSlug(ref string) string {
	if m := refPattern.FindStringSubmatch(ref); m != nil {
		return m[3]
	}
	return ref
}
