// Package testsupport holds fixture and golden-file helpers shared by the
// package tests. Goldens are rewritten when UPDATE_GOLDENS is set.
package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formhost/pkg/openapi"
	"github.com/goliatone/go-formhost/pkg/schemafile"
)

// LoadOpenAPI parses the OpenAPI fixture at path.
func LoadOpenAPI(t *testing.T, path string) *openapi.Document {
	t.Helper()

	doc, err := openapi.LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("load openapi fixture: %v", err)
	}
	return doc
}

// LoadDefinition parses the schema definition fixture at path.
func LoadDefinition(t *testing.T, path string) *schemafile.File {
	t.Helper()

	file, err := schemafile.Load(path)
	if err != nil {
		t.Fatalf("load definition fixture: %v", err)
	}
	return file
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set and
// reports whether it did.
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden decodes the JSON golden at path into out.
func MustReadGolden(t *testing.T, path string, out any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
}

// AssertGolden compares got with the JSON golden at path, rewriting the
// golden instead when UPDATE_GOLDENS is set.
func AssertGolden[T any](t *testing.T, path string, got T) {
	t.Helper()

	if WriteGolden(t, path, got) {
		return
	}
	var want T
	MustReadGolden(t, path, &want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}
