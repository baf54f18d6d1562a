package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Item is one entry on the list. Names are unique within a list (exact match).
type Item struct {
	Name   string `json:"name"`
	Bought bool   `json:"bought"`
}

// Capitalize upper-cases the first rune of s and leaves the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	up := unicode.ToUpper(r)
	if up == r {
		return s
	}
	return string(up) + s[size:]
}

// IndexOf returns the position of the first item named name, or -1.
func IndexOf(items []Item, name string) int {
	for i, it := range items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// MatchesFilter reports whether name contains text, ignoring case.
func MatchesFilter(name, text string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(text))
}
