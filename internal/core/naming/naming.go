// Package naming derives identifier variants (capitalized, plural, humanized,
// kebab) from entity and relationship names. Pure functions only.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gertd/go-pluralize"
)

var plurals = pluralize.NewClient()

// Pluralize returns the plural form of a word, preserving its casing.
func Pluralize(s string) string {
	if s == "" {
		return s
	}
	return plurals.Plural(s)
}

// Capitalize returns the string with the first letter uppercased.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst returns the string with the first letter lowercased.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// StartCase converts a name to space separated words, each capitalized.
// e.g., "orderItem" -> "Order Item"
func StartCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = Capitalize(word)
	}
	return strings.Join(words, " ")
}

// KebabCase converts a name to lowercase words joined by dashes.
// e.g., "OrderItem" -> "order-item"
func KebabCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "-")
}

// splitWords splits a string into words (handles camelCase, PascalCase,
// snake_case, kebab-case and acronyms such as "HTTPServer").
func splitWords(s string) []string {
	runes := []rune(s)

	var result strings.Builder
	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			result.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				result.WriteRune(' ')
			}
		}
		result.WriteRune(r)
	}

	return strings.Fields(result.String())
}
