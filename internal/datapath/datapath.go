// Package datapath reads and writes nested map values addressed by dotted
// paths ("data.address.city"). Numeric segments index into slices.
package datapath

import (
	"strconv"
	"strings"
)

// Separator splits path segments.
const Separator = "."

// Segments splits a dotted path, dropping empty segments.
func Segments(path string) []string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	parts := strings.Split(path, Separator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		out = append(out, segment)
	}
	return out
}

// Root returns the portion of path before the first separator.
func Root(path string) string {
	root, _, _ := strings.Cut(strings.TrimSpace(path), Separator)
	return root
}

// Join concatenates non-empty segments with the separator.
func Join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return strings.Join(out, Separator)
}

// Get returns the value stored at path, or nil when any segment is missing.
func Get(data map[string]any, path string) any {
	value, _ := Lookup(data, path)
	return value
}

// Lookup returns the value stored at path and whether every segment exists.
func Lookup(data map[string]any, path string) (any, bool) {
	segments := Segments(path)
	if len(segments) == 0 || data == nil {
		return nil, false
	}
	var current any = data
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, ok := index(segment)
			if !ok || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes value at path and returns the new root. Maps and slices along
// the path are copied so callers holding the previous root never observe the
// write. A numeric segment indexes into an existing slice, growing it with
// nils when the index is past the end. Other missing or scalar intermediate
// nodes are replaced by maps.
func Set(data map[string]any, path string, value any) map[string]any {
	segments := Segments(path)
	if len(segments) == 0 {
		return data
	}
	return setSegments(data, segments, value)
}

func setSegments(node map[string]any, segments []string, value any) map[string]any {
	out := make(map[string]any, len(node)+1)
	for key, existing := range node {
		out[key] = existing
	}
	out[segments[0]] = setChild(out[segments[0]], segments[1:], value)
	return out
}

func setChild(node any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}
	list, isList := node.([]any)
	idx, isIndex := index(segments[0])
	if !isList || !isIndex {
		child, _ := node.(map[string]any)
		return setSegments(child, segments, value)
	}
	size := max(len(list), idx+1)
	out := make([]any, size)
	copy(out, list)
	out[idx] = setChild(out[idx], segments[1:], value)
	return out
}

// Delete removes the value at path and returns the new root, copying maps
// and slices along the path like Set. Deleting a slice element shifts the
// elements after it.
func Delete(data map[string]any, path string) map[string]any {
	segments := Segments(path)
	if len(segments) == 0 || data == nil {
		return data
	}
	out, _ := deleteChild(data, segments)
	return out.(map[string]any)
}

// deleteChild returns node without the value at segments and whether
// anything was removed. Untouched nodes are returned as-is.
func deleteChild(node any, segments []string) (any, bool) {
	head, rest := segments[0], segments[1:]
	switch typed := node.(type) {
	case map[string]any:
		existing, ok := typed[head]
		if !ok {
			return node, false
		}
		var replacement any
		if len(rest) > 0 {
			if replacement, ok = deleteChild(existing, rest); !ok {
				return node, false
			}
		}
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = value
		}
		if len(rest) == 0 {
			delete(out, head)
		} else {
			out[head] = replacement
		}
		return out, true
	case []any:
		idx, ok := index(head)
		if !ok || idx >= len(typed) {
			return node, false
		}
		if len(rest) == 0 {
			out := make([]any, 0, len(typed)-1)
			out = append(out, typed[:idx]...)
			return append(out, typed[idx+1:]...), true
		}
		replacement, ok := deleteChild(typed[idx], rest)
		if !ok {
			return node, false
		}
		out := append([]any(nil), typed...)
		out[idx] = replacement
		return out, true
	default:
		return node, false
	}
}

func index(segment string) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// Clone deep copies maps and slices; other values are returned as-is.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = Clone(item)
		}
		return out
	default:
		return value
	}
}

// CloneMap deep copies a map. A nil map stays nil.
func CloneMap(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for key, value := range data {
		out[key] = Clone(value)
	}
	return out
}
