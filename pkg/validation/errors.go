package validation

import (
	"sort"
	"strconv"
	"strings"
)

// Error is the failure a Validator returns when one or more paths violate
// their rules. Messages are keyed by dotted state path.
type Error struct {
	Messages map[string][]string
}

// NewError builds an Error from field messages, trimming blanks and removing
// duplicates while preserving order. Paths left without messages are dropped.
func NewError(messages map[string][]string) *Error {
	out := make(map[string][]string, len(messages))
	for path, list := range messages {
		if normalized := normalizeMessages(list); len(normalized) > 0 {
			out[path] = normalized
		}
	}
	return &Error{Messages: out}
}

// Error returns the first message of the lexically first path, followed by a
// count of the remaining messages.
func (e *Error) Error() string {
	if e == nil || len(e.Messages) == 0 {
		return "validation: invalid data"
	}
	first := ""
	remaining := -1
	for _, path := range e.Paths() {
		if first == "" && len(e.Messages[path]) > 0 {
			first = e.Messages[path][0]
		}
		remaining += len(e.Messages[path])
	}
	if first == "" {
		return "validation: invalid data"
	}
	if remaining <= 0 {
		return first
	}
	suffix := " (and 1 more error)"
	if remaining > 1 {
		suffix = " (and " + strconv.Itoa(remaining) + " more errors)"
	}
	return first + suffix
}

// Paths returns the failing paths sorted lexically.
func (e *Error) Paths() []string {
	if e == nil {
		return nil
	}
	paths := make([]string, 0, len(e.Messages))
	for path := range e.Messages {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Has reports whether the path failed.
func (e *Error) Has(path string) bool {
	if e == nil {
		return false
	}
	return len(e.Messages[path]) > 0
}

// First returns the first message for a path or "".
func (e *Error) First(path string) string {
	if !e.Has(path) {
		return ""
	}
	return e.Messages[path][0]
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
