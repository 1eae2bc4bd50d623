// Package id generates opaque identifiers and slug suffixes.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// suffixLength is the length of random slug suffixes.
// 8 URL-safe characters gives enough entropy to avoid collisions between
// albums that share a title, while keeping share links readable.
const suffixLength = 8

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "token-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure random
// generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Suffix creates a short random slug suffix using a lowercase alphanumeric
// alphabet, suitable for appending to human-readable slugs (share links,
// upload filenames).
func Suffix() (string, error) {
	s, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", suffixLength)
	if err != nil {
		return "", fmt.Errorf("generate suffix: %w", err)
	}
	return s, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use only when failure should crash the program (e.g., during init).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
