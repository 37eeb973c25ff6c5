package catalog

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	separatorReplacer = strings.NewReplacer("_", " ", "-", " ")
	tokenSplitRegex   = regexp.MustCompile(`[^a-z0-9]+`)
)

// minTagLength is the shortest identifier token kept as a tag.
const minTagLength = 3

// DisplayName derives a human-readable name from a pattern ID: "glider_gun"
// becomes "Glider Gun". Segments that are already upper-case stay as they are.
func DisplayName(id string) string {
	parts := strings.Fields(separatorReplacer.Replace(id))
	for i, part := range parts {
		if !isUpper(part) {
			parts[i] = capitalize(part)
		}
	}
	return strings.Join(parts, " ")
}

// Tags returns the sorted set made of category and every token of the
// lower-cased id that is at least minTagLength long.
func Tags(id, category string) []string {
	set := map[string]struct{}{category: {}}
	for _, token := range tokenSplitRegex.Split(strings.ToLower(id), -1) {
		if len(token) >= minTagLength {
			set[token] = struct{}{}
		}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// isUpper reports whether s has at least one cased letter and no lower-case
// ones, so "P60" and "LWSS" count but "60" does not.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// capitalize title-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(s)
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
