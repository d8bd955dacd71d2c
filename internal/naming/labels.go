// Package naming derives human labels from field names and state paths.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Label turns a field name into a title-cased label: "first_name" and
// "firstName" both become "First Name". Acronyms keep their capitals, so
// "billingURL" becomes "Billing URL".
func Label(name string) string {
	parts := words(name)
	for idx, word := range parts {
		if !isAcronym(word) {
			parts[idx] = capitalize(strings.ToLower(word))
		}
	}
	return strings.Join(parts, " ")
}

// Attribute returns the lower-case phrase naming a state path inside
// validation messages. The last segment that is not a list index is used:
// "data.first_name" and "items.0" yield "first name" and "items".
func Attribute(path string) string {
	segments := strings.Split(path, ".")
	for idx := len(segments) - 1; idx >= 0; idx-- {
		segment := strings.TrimSpace(segments[idx])
		if segment == "" || isIndex(segment) {
			continue
		}
		return strings.ToLower(strings.Join(words(segment), " "))
	}
	return strings.TrimSpace(path)
}

// words splits an identifier at separators, lower-to-upper transitions and
// letter/digit boundaries. A run of capitals followed by a lower-case letter
// ends before its last capital ("HTTPStatus" is "HTTP", "Status").
func words(name string) []string {
	runes := []rune(name)
	var out []string
	start := -1
	for i, ch := range runes {
		switch {
		case isSeparator(ch):
			if start >= 0 {
				out = append(out, string(runes[start:i]))
				start = -1
			}
		case start < 0:
			start = i
		case breaksBefore(runes, i):
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	if start >= 0 {
		out = append(out, string(runes[start:]))
	}
	return out
}

func breaksBefore(runes []rune, i int) bool {
	prev, ch := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(ch):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(ch), unicode.IsDigit(prev) && unicode.IsLetter(ch):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(ch):
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}
	return false
}

func isSeparator(ch rune) bool {
	return ch == '_' || ch == '-' || ch == '.' || unicode.IsSpace(ch)
}

func isAcronym(word string) bool {
	if utf8.RuneCountInString(word) < 2 {
		return false
	}
	for _, ch := range word {
		if !unicode.IsUpper(ch) {
			return false
		}
	}
	return true
}

func isIndex(segment string) bool {
	for _, ch := range segment {
		if !unicode.IsDigit(ch) {
			return false
		}
	}
	return true
}

func capitalize(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(first)) + word[size:]
}
