package entity

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Capitalize upper-cases the first letter of s, leaving the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.English).String(string(r)) + s[size:]
}

// NameMatches reports whether word prefixes one of the words of name,
// ignoring case and leading articles.
func NameMatches(name, word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}
	for _, w := range strings.Fields(name) {
		if isArticle(w) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(w), word) {
			return true
		}
	}
	return false
}
