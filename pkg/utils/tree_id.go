package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateTreeID creates a human-readable production tree ID.
// Format: tree-{resourceSlug}-{8charHexUUID}
//
// Example:
//   - Input: resource="Iron Ingot"
//   - Output: "tree-iron-ingot-a3f8e2b1"
func GenerateTreeID(resource string) string {
	slug := slugify(resource)
	if slug == "" {
		return "tree-" + generateShortUUID()
	}
	return "tree-" + slug + "-" + generateShortUUID()
}

// slugify lowercases the resource name and collapses every run of
// non-alphanumeric characters into a single hyphen.
//   - "Iron Ingot" -> "iron-ingot"
//   - "Casimir Crystal (Advanced)" -> "casimir-crystal-advanced"
//   - "  " -> ""
func slugify(resource string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(resource) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
