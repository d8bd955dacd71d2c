package openapi

import (
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formhost/pkg/host"
	"github.com/goliatone/go-formhost/pkg/schema"
	"github.com/goliatone/go-formhost/pkg/validation"
)

const (
	labelExtension    = "x-formhost-label"
	sanitizeExtension = "x-formhost-sanitize"

	sanitizeStrict = "strict"
	sanitizeHTML   = "html"
)

// Fields builds fresh fields for the request body of operationID. Object
// properties become fields in lexical order; nested objects become fields
// with children so their state lives under the property name. An operation
// without a request body yields no fields.
func (d *Document) Fields(operationID string) ([]*schema.Field, error) {
	body, err := d.requestSchema(operationID)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	return objectFields(body, map[*openapi3.Schema]bool{}), nil
}

// Rules returns the validation rules declared for operationID keyed by
// property path.
func (d *Document) Rules(operationID string) (validation.Rules, error) {
	fields, err := d.Fields(operationID)
	if err != nil {
		return nil, err
	}
	form := schema.NewForm(nil).Schema(fields...)
	return form.ValidationRules(), nil
}

// FormMethod returns a host method building a form from the request body of
// operationID. Each resolution builds new fields.
func (d *Document) FormMethod(operationID string) (host.Method, error) {
	if _, ok := d.operations[operationID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	return host.Builds(func(form *schema.Form) *schema.Form {
		fields, err := d.Fields(operationID)
		if err != nil {
			return nil
		}
		form.Schema(fields...)
		return form
	}), nil
}

// Register defines a form method on h for every operation id, named after
// MethodName, so h.Schema(operationID) resolves the operation's form. With no
// ids every operation of the document is registered.
func (d *Document) Register(h *host.Host, operationIDs ...string) error {
	if len(operationIDs) == 0 {
		operationIDs = d.Operations()
	}
	for _, id := range operationIDs {
		method, err := d.FormMethod(id)
		if err != nil {
			return err
		}
		h.Define(MethodName(id), method)
	}
	return nil
}

func objectFields(object *openapi3.Schema, seen map[*openapi3.Schema]bool) []*schema.Field {
	if object == nil || seen[object] || len(object.Properties) == 0 {
		return nil
	}
	seen[object] = true
	defer delete(seen, object)

	names := make([]string, 0, len(object.Properties))
	for name := range object.Properties {
		names = append(names, name)
	}
	slices.Sort(names)

	fields := make([]*schema.Field, 0, len(names))
	for _, name := range names {
		ref := object.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		fields = append(fields, propertyField(name, ref.Value, slices.Contains(object.Required, name), seen))
	}
	return fields
}

func propertyField(name string, property *openapi3.Schema, required bool, seen map[*openapi3.Schema]bool) *schema.Field {
	field := schema.NewField(name)
	if label := propertyLabel(property); label != "" {
		field.SetLabel(label)
	}

	if hasType(property, openapi3.TypeObject) {
		if required {
			field.Required()
		}
		return field.Schema(objectFields(property, seen)...)
	}

	field.AddRules(propertyRules(property, required)...)
	switch extensionString(property, sanitizeExtension) {
	case sanitizeStrict:
		field.Sanitize()
	case sanitizeHTML:
		field.SanitizeHTML()
	}
	return field
}

func propertyRules(property *openapi3.Schema, required bool) []validation.Rule {
	var rules []validation.Rule
	if required {
		rules = append(rules, validation.Required())
	}
	if hasType(property, openapi3.TypeNumber) || hasType(property, openapi3.TypeInteger) {
		rules = append(rules, validation.Numeric())
	}
	if property.Min != nil {
		rules = append(rules, validation.Min(*property.Min))
	}
	if property.Max != nil {
		rules = append(rules, validation.Max(*property.Max))
	}
	if property.MinLength > 0 {
		rules = append(rules, validation.MinLength(int(property.MinLength)))
	}
	if property.MaxLength != nil {
		rules = append(rules, validation.MaxLength(int(*property.MaxLength)))
	}
	if property.Pattern != "" {
		rules = append(rules, validation.Pattern(property.Pattern))
	}
	if len(property.Enum) > 0 {
		values := make([]string, 0, len(property.Enum))
		for _, value := range property.Enum {
			values = append(values, fmt.Sprint(value))
		}
		rules = append(rules, validation.In(values...))
	}
	return rules
}

func propertyLabel(property *openapi3.Schema) string {
	if label := extensionString(property, labelExtension); label != "" {
		return label
	}
	return strings.TrimSpace(property.Title)
}

func hasType(property *openapi3.Schema, typ string) bool {
	if property.Type == nil {
		return typ == openapi3.TypeObject && len(property.Properties) > 0
	}
	return slices.Contains(property.Type.Slice(), typ)
}

func extensionString(property *openapi3.Schema, key string) string {
	value, ok := property.Extensions[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
