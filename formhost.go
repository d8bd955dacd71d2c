// Package formhost is the entry point for hosting schema trees in a
// server-rendered component. It re-exports the host constructor and wires
// declarative definition files and OpenAPI documents into a host.
package formhost

import (
	"context"

	"github.com/goliatone/go-formhost/pkg/host"
	"github.com/goliatone/go-formhost/pkg/openapi"
	"github.com/goliatone/go-formhost/pkg/schemafile"
)

// Host aliases host.Host for callers that only import the root package.
type Host = host.Host

// Option aliases host.Option.
type Option = host.Option

// Method aliases host.Method.
type Method = host.Method

// New constructs a host identified by id.
func New(id string, options ...Option) *Host {
	return host.New(id, options...)
}

// LoadFile reads a YAML, JSON or JSONC schema definition.
func LoadFile(path string) (*schemafile.File, error) {
	return schemafile.Load(path)
}

// NewFromFile constructs a host configured by the definition at path.
// Options passed by the caller are applied after the file's.
func NewFromFile(id, path string, options ...Option) (*Host, error) {
	file, err := schemafile.Load(path)
	if err != nil {
		return nil, err
	}
	return host.New(id, append(file.Options(), options...)...), nil
}

// NewFromOpenAPI constructs a host whose schemas are the request bodies of
// the document at path, one per operation id.
func NewFromOpenAPI(ctx context.Context, id, path string, options ...Option) (*Host, error) {
	doc, err := openapi.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	h := host.New(id, options...)
	if err := doc.Register(h); err != nil {
		return nil, err
	}
	return h, nil
}
