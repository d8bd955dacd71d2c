package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrOperationNotFound is returned when an operation id is not declared by
// the document.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// Option configures how documents are loaded.
type Option func(*loadOptions)

type loadOptions struct {
	externalRefs bool
	validate     bool
}

// WithExternalRefs allows $ref values pointing outside the document.
func WithExternalRefs() Option {
	return func(o *loadOptions) {
		o.externalRefs = true
	}
}

// WithDocumentValidation validates the document against the OpenAPI 3
// specification after loading. Example values are not validated.
func WithDocumentValidation() Option {
	return func(o *loadOptions) {
		o.validate = true
	}
}

// Document is a parsed OpenAPI document.
type Document struct {
	spec       *openapi3.T
	location   string
	operations map[string]*openapi3.Operation
}

// Load parses raw as a JSON or YAML OpenAPI document.
func Load(ctx context.Context, raw []byte, options ...Option) (*Document, error) {
	return load(ctx, raw, "", options)
}

// LoadFile reads and parses the document at path.
func LoadFile(ctx context.Context, path string, options ...Option) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return load(ctx, raw, path, options)
}

// LoadFS reads and parses the document stored under name in fsys.
func LoadFS(ctx context.Context, fsys fs.FS, name string, options ...Option) (*Document, error) {
	if fsys == nil {
		return nil, errors.New("openapi: filesystem is not configured")
	}
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return load(ctx, raw, name, options)
}

func load(ctx context.Context, raw []byte, location string, options []Option) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	var cfg loadOptions
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = cfg.externalRefs

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	doc := &Document{
		spec:       spec,
		location:   location,
		operations: make(map[string]*openapi3.Operation),
	}
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, operation := range item.Operations() {
				doc.collect(method, path, operation)
			}
		}
	}
	return doc, nil
}

func (d *Document) collect(method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	d.operations[id] = operation
}

// Location returns the path the document was read from, if any.
func (d *Document) Location() string { return d.location }

// Title returns the document title.
func (d *Document) Title() string {
	if d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// Operations returns the operation ids in lexical order. Operations without
// an id are listed as "<method>:<path>".
func (d *Document) Operations() []string {
	ids := make([]string, 0, len(d.operations))
	for id := range d.operations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

var preferredMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// requestSchema returns the schema of the operation's request body, picking
// the first preferred media type, then the lexically first declared one.
func (d *Document) requestSchema(operationID string) (*openapi3.Schema, error) {
	operation, ok := d.operations[operationID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	body := operation.RequestBody
	if body == nil || body.Value == nil || len(body.Value.Content) == 0 {
		return nil, nil
	}
	content := body.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt, ok := content[mediaType]; ok {
			return mediaSchema(mt), nil
		}
	}
	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	slices.Sort(names)
	return mediaSchema(content[names[0]]), nil
}

func mediaSchema(mt *openapi3.MediaType) *openapi3.Schema {
	if mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

// MethodName is the host method name an operation is registered under by
// Register: the operation id followed by "Schema".
func MethodName(operationID string) string {
	return operationID + "Schema"
}
