package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formhost/internal/datapath"
	"github.com/goliatone/go-formhost/internal/naming"
)

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithMessages overrides default message templates keyed by rule kind.
func WithMessages(messages map[string]string) EngineOption {
	return func(e *Engine) {
		for kind, tpl := range messages {
			kind = strings.TrimSpace(kind)
			if kind == "" {
				continue
			}
			e.messages[kind] = tpl
		}
	}
}

// Engine evaluates Rules by translating each rule into a single-constraint
// OpenAPI schema and checking the value with kin-openapi. Failure messages
// are pongo2 templates receiving "attribute", "value", "values" and "input".
// An Engine can be shared; compiled templates are cached.
type Engine struct {
	mu        sync.Mutex
	messages  map[string]string
	templates map[string]*pongo2.Template
}

var _ Validator = (*Engine)(nil)

// NewEngine constructs an Engine with the default English messages.
func NewEngine(options ...EngineOption) *Engine {
	e := &Engine{
		messages:  make(map[string]string, len(defaultMessages)),
		templates: make(map[string]*pongo2.Template),
	}
	for kind, tpl := range defaultMessages {
		e.messages[kind] = tpl
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Validate implements Validator. Paths are evaluated in lexical order; empty
// values only fail the required rule and skip every other rule.
func (e *Engine) Validate(ctx context.Context, in Input) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failures := make(map[string][]string)
	validated := make(map[string]any)

	for _, path := range in.Rules.Paths() {
		value, present := datapath.Lookup(in.Data, path)
		rules := in.Rules[path]

		if isEmpty(value) {
			if in.Rules.Has(path, RuleRequired) {
				msg, err := e.message(path, Required(), value, in)
				if err != nil {
					return nil, err
				}
				failures[path] = append(failures[path], msg)
				continue
			}
			if present {
				validated = datapath.Set(validated, path, value)
			}
			continue
		}

		failed := false
		for _, rule := range rules {
			if rule.Kind == RuleRequired {
				continue
			}
			ok, err := check(rule, value)
			if err != nil {
				return nil, fmt.Errorf("validation: rule %q on %q: %w", rule.Kind, path, err)
			}
			if ok {
				continue
			}
			msg, err := e.message(path, rule, value, in)
			if err != nil {
				return nil, err
			}
			failures[path] = append(failures[path], msg)
			failed = true
		}
		if !failed {
			validated = datapath.Set(validated, path, value)
		}
	}

	if len(failures) > 0 {
		return nil, NewError(failures)
	}
	return validated, nil
}

func check(rule Rule, value any) (bool, error) {
	switch rule.Kind {
	case RuleNumeric:
		_, ok := toNumber(value)
		return ok, nil
	case RuleMin, RuleMax:
		number, ok := toNumber(value)
		if !ok {
			return true, nil
		}
		bound, err := strconv.ParseFloat(rule.Param("value"), 64)
		if err != nil {
			return false, fmt.Errorf("invalid bound %q", rule.Param("value"))
		}
		schema := &openapi3.Schema{Type: &openapi3.Types{"number"}}
		if rule.Kind == RuleMin {
			schema.Min = &bound
		} else {
			schema.Max = &bound
		}
		return visit(schema, number), nil
	case RuleMinLength, RuleMaxLength:
		text, ok := value.(string)
		if !ok {
			return true, nil
		}
		limit, err := strconv.ParseUint(rule.Param("value"), 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid length %q", rule.Param("value"))
		}
		schema := &openapi3.Schema{Type: &openapi3.Types{"string"}}
		if rule.Kind == RuleMinLength {
			schema.MinLength = limit
		} else {
			schema.MaxLength = &limit
		}
		return visit(schema, text), nil
	case RulePattern:
		text, ok := value.(string)
		if !ok {
			text = fmt.Sprint(value)
		}
		expr := rule.Param("pattern")
		if _, err := regexp.Compile(expr); err != nil {
			return false, fmt.Errorf("invalid pattern: %w", err)
		}
		schema := &openapi3.Schema{Type: &openapi3.Types{"string"}, Pattern: expr}
		return visit(schema, text), nil
	case RuleIn:
		allowed := rule.Values()
		enum := make([]any, len(allowed))
		for idx, item := range allowed {
			enum[idx] = item
		}
		schema := &openapi3.Schema{Enum: enum}
		return visit(schema, fmt.Sprint(value)), nil
	default:
		// Unknown kinds belong to other validators.
		return true, nil
	}
}

func visit(schema *openapi3.Schema, value any) bool {
	return schema.VisitJSON(value) == nil
}

func (e *Engine) message(path string, rule Rule, value any, in Input) (string, error) {
	source := e.templateFor(path, rule.Kind, in.Messages)

	tpl, err := e.compile(source)
	if err != nil {
		return "", fmt.Errorf("validation: compile message for %q: %w", rule.Kind, err)
	}

	attribute := in.Attributes[path]
	if strings.TrimSpace(attribute) == "" {
		attribute = naming.Attribute(path)
	}

	out, err := tpl.Execute(pongo2.Context{
		"attribute": attribute,
		"value":     rule.Param("value"),
		"values":    strings.Join(rule.Values(), ", "),
		"input":     fmt.Sprint(value),
	})
	if err != nil {
		return "", fmt.Errorf("validation: render message for %q: %w", rule.Kind, err)
	}
	return out, nil
}

func (e *Engine) templateFor(path, kind string, overrides map[string]string) string {
	if tpl, ok := overrides[path+"."+kind]; ok {
		return tpl
	}
	if tpl, ok := overrides[kind]; ok {
		return tpl
	}
	if tpl, ok := e.messages[kind]; ok {
		return tpl
	}
	return e.messages[messageFallback]
}

// Messages are plain text; pongo2 escapes HTML unless told otherwise.
const (
	autoescapeOff = "{% autoescape off %}"
	autoescapeEnd = "{% endautoescape %}"
)

func (e *Engine) compile(source string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tpl, ok := e.templates[source]; ok {
		return tpl, nil
	}
	tpl, err := pongo2.FromString(autoescapeOff + source + autoescapeEnd)
	if err != nil {
		return nil, err
	}
	e.templates[source] = tpl
	return tpl, nil
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []any:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer:
		return rv.IsNil()
	}
	return false
}

func toNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case json.Number:
		number, err := typed.Float64()
		return number, err == nil
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return number, err == nil
	}
	return 0, false
}
