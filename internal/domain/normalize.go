package domain

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9]`)
	aliasSplitRe    = regexp.MustCompile(`,|;|/|\(|\)`)
	parentheticalRe = regexp.MustCompile(`\s*\(.*?\)\s*`)
	apostropheRe    = regexp.MustCompile(`['’]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// NormalizeKey canonicalizes a free-text species name into a lookup key:
// lower-case with every character outside [a-z0-9] removed. The result is
// not reversible and non-ASCII letters are dropped. Collisions between
// distinct names are possible and treated as the same species; that is an
// accepted approximation of the source datasets, not a correctness
// guarantee.
func NormalizeKey(s string) string {
	if s == "" {
		return ""
	}
	return nonAlnumRe.ReplaceAllString(strings.ToLower(s), "")
}

// NormalizeLoose is the offline-merge normalizer. Unlike NormalizeKey it
// preserves token boundaries: lower-case, apostrophes dropped, hyphens
// replaced with spaces, whitespace runs collapsed, trimmed. The merged
// dataset uses these looser keys so its entries stay human-readable.
func NormalizeLoose(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = apostropheRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "-", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ExpandAliases derives every normalized lookup key under which a name
// should be findable. The name is split on commas, semicolons, slashes, and
// parentheses; fragments longer than 2 characters are normalized and kept,
// along with the normalized whole name. A multi-synonym name like
// "Cape broom / Montpellier broom (genista)" is then reachable by any of
// its parts. Duplicates and empty keys are dropped; order follows the
// original text.
func ExpandAliases(name string) []string {
	var keys []string
	seen := map[string]bool{}
	for _, frag := range AliasFragments(name) {
		k := NormalizeKey(frag)
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// AliasFragments returns the whole name followed by every separator-split
// fragment longer than 2 characters, trimmed but not normalized. Callers
// choose the normalizer appropriate to their index.
func AliasFragments(name string) []string {
	frags := []string{name}
	for _, frag := range aliasSplitRe.Split(name, -1) {
		frag = strings.TrimSpace(frag)
		if len(frag) > 2 {
			frags = append(frags, frag)
		}
	}
	return frags
}

// StripParenthetical removes parenthesized qualifiers and their surrounding
// whitespace, so "Gazania (linearis)" simplifies to "Gazania".
func StripParenthetical(s string) string {
	return strings.TrimSpace(parentheticalRe.ReplaceAllString(s, ""))
}

// SlugFromURL extracts the final non-empty path segment of a profile URL.
// Profile slugs are stable identifiers minted by the profile website and
// double as primary keys in the Victorian dataset, which makes them a
// reliable join bridge when the two sources disagree on name formatting.
func SlugFromURL(u string) string {
	u = strings.TrimRight(u, "/")
	for i := len(u) - 1; i >= 0; i-- {
		if u[i] == '/' {
			return u[i+1:]
		}
	}
	return u
}
