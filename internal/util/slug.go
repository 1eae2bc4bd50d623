// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

var (
	// Matches runs of characters that are not lowercase alphanumerics.
	nonAlphanumericRunRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify converts a title to a URL-safe slug used as the base of share IDs.
//
// Rules:
//  1. Trim whitespace and lowercase
//  2. Replace every run of non-alphanumeric characters with a single dash
//  3. Trim leading/trailing dashes
//
// Examples:
//
//	"Summer Trip"     → "summer-trip"
//	"  Rome 2024!  "  → "rome-2024"
//	"cats & dogs"     → "cats-dogs"
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphanumericRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeTag converts user input to a canonical photo tag.
// Tags are stored lowercase with surrounding whitespace removed; an empty
// result means the input was not a usable tag.
func NormalizeTag(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NormalizeTags normalizes a list of tags, dropping empties and duplicates
// while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
