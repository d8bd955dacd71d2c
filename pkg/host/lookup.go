package host

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formhost/internal/datapath"
	"github.com/goliatone/go-formhost/pkg/schema"
)

// ErrSchemaNotFound is returned when a component key names a schema that the
// host cannot provide.
var ErrSchemaNotFound = errors.New("host: schema not found")

// SchemaComponent returns the component addressed by a dotted key whose
// first segment names the schema. Keys without a separator yield nil.
func (h *Host) SchemaComponent(key string) (schema.Component, error) {
	key = strings.TrimSpace(key)
	name, _, ok := strings.Cut(key, datapath.Separator)
	if !ok {
		return nil, nil
	}

	tree := h.Schema(name)
	if tree == nil {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}
	return tree.Component(key, true), nil
}

// CallComponentMethod invokes an exposed method of the component addressed
// by key. Missing components, missing methods and methods that are not
// exposed yield (nil, nil) without side effects. Renderless methods signal
// SkipRender before they run.
func (h *Host) CallComponentMethod(key, method string, args ...any) (any, error) {
	component, err := h.SchemaComponent(key)
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, nil
	}

	m, ok := component.Method(method)
	if !ok || m.Func == nil {
		return nil, nil
	}
	if !m.Exposed {
		h.logger.Debug("refused unexposed component method", "host", h.id, "component", key, "method", method)
		return nil, nil
	}
	if m.Renderless {
		h.SkipRender()
	}
	return m.Func(args...)
}
