// Package schemafile reads declarative host definitions: named schemas with
// their fields and rules, plus host level rules, labels, messages and seed
// state. Definitions are written in YAML, JSON or JSON with comments.
package schemafile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formhost/pkg/validation"
)

// Format names the encoding of a definition file.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
)

// Schema kinds.
const (
	KindSchema   = "schema"
	KindForm     = "form"
	KindInfolist = "infolist"
)

// Sanitize modes.
const (
	SanitizeStrict = "strict"
	SanitizeHTML   = "html"
)

// ErrInvalidDefinition wraps every structural problem found in a file.
var ErrInvalidDefinition = errors.New("schemafile: invalid definition")

// File is a decoded definition.
type File struct {
	Schemas    []Schema            `yaml:"schemas" json:"schemas"`
	Rules      map[string][]string `yaml:"rules,omitempty" json:"rules,omitempty"`
	Attributes map[string]string   `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Messages   map[string]string   `yaml:"messages,omitempty" json:"messages,omitempty"`
	State      map[string]any      `yaml:"state,omitempty" json:"state,omitempty"`
	Locale     string              `yaml:"locale,omitempty" json:"locale,omitempty"`

	location string
	rules    validation.Rules
}

// Schema declares one named schema tree.
type Schema struct {
	Name      string  `yaml:"name" json:"name"`
	Kind      string  `yaml:"kind,omitempty" json:"kind,omitempty"`
	StatePath string  `yaml:"statePath,omitempty" json:"statePath,omitempty"`
	Fields    []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Field declares a stateful field (Name) or a layout group (Group).
type Field struct {
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Group    string   `yaml:"group,omitempty" json:"group,omitempty"`
	Label    string   `yaml:"label,omitempty" json:"label,omitempty"`
	Rules    []string `yaml:"rules,omitempty" json:"rules,omitempty"`
	Sanitize string   `yaml:"sanitize,omitempty" json:"sanitize,omitempty"`
	Fields   []Field  `yaml:"fields,omitempty" json:"fields,omitempty"`

	rules []validation.Rule
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	default:
		return "", fmt.Errorf("schemafile: unsupported file extension %q", filepath.Ext(path))
	}
}

// Load reads and parses the definition at path.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %s: %w", path, err)
	}
	return parse(data, format, filepath.Clean(path))
}

// LoadFS reads and parses the definition stored under name in fsys.
func LoadFS(fsys fs.FS, name string) (*File, error) {
	if fsys == nil {
		return nil, errors.New("schemafile: filesystem is not configured")
	}
	format, err := FormatFromPath(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %s: %w", name, err)
	}
	return parse(data, format, name)
}

// Parse decodes data in the given format. Unknown keys are rejected.
func Parse(data []byte, format Format) (*File, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, location string) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("schemafile: definition is empty")
	}

	var file File
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&file); err != nil {
			return nil, fmt.Errorf("schemafile: decode yaml: %w", err)
		}
	case FormatJSON, FormatJSONC:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&file); err != nil {
			return nil, fmt.Errorf("schemafile: decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("schemafile: unsupported format %q", format)
	}

	file.location = location
	if err := file.compile(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Location returns the path the file was read from, if any.
func (f *File) Location() string { return f.location }

// SchemaNames returns the declared schema names in declaration order.
func (f *File) SchemaNames() []string {
	names := make([]string, 0, len(f.Schemas))
	for _, s := range f.Schemas {
		names = append(names, s.Name)
	}
	return names
}

// Lookup returns the schema declared under name.
func (f *File) Lookup(name string) (Schema, bool) {
	for _, s := range f.Schemas {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}

func (f *File) compile() error {
	seen := make(map[string]bool, len(f.Schemas))
	for idx := range f.Schemas {
		s := &f.Schemas[idx]
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return fmt.Errorf("%w: schema %d has no name", ErrInvalidDefinition, idx)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate schema %q", ErrInvalidDefinition, s.Name)
		}
		seen[s.Name] = true

		switch s.Kind {
		case "":
			s.Kind = KindSchema
		case KindSchema, KindForm, KindInfolist:
		default:
			return fmt.Errorf("%w: schema %q has unknown kind %q", ErrInvalidDefinition, s.Name, s.Kind)
		}
		if err := compileFields(s.Name, s.Fields); err != nil {
			return err
		}
	}

	f.rules = make(validation.Rules, len(f.Rules))
	for path, raw := range f.Rules {
		rules, err := parseRules(raw)
		if err != nil {
			return fmt.Errorf("%w: rules for %q: %w", ErrInvalidDefinition, path, err)
		}
		f.rules[strings.TrimSpace(path)] = rules
	}
	return nil
}

func compileFields(schemaName string, fields []Field) error {
	for idx := range fields {
		field := &fields[idx]
		field.Name = strings.TrimSpace(field.Name)
		field.Group = strings.TrimSpace(field.Group)

		switch {
		case field.Name == "" && field.Group == "":
			return fmt.Errorf("%w: schema %q has a field without name or group", ErrInvalidDefinition, schemaName)
		case field.Name != "" && field.Group != "":
			return fmt.Errorf("%w: schema %q field %q sets both name and group", ErrInvalidDefinition, schemaName, field.Name)
		}

		switch field.Sanitize {
		case "", SanitizeStrict, SanitizeHTML:
		default:
			return fmt.Errorf("%w: schema %q field %q has unknown sanitize mode %q", ErrInvalidDefinition, schemaName, field.key(), field.Sanitize)
		}

		rules, err := parseRules(field.Rules)
		if err != nil {
			return fmt.Errorf("%w: schema %q field %q: %w", ErrInvalidDefinition, schemaName, field.key(), err)
		}
		field.rules = rules

		if err := compileFields(schemaName, field.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (f Field) key() string {
	if f.Group != "" {
		return f.Group
	}
	return f.Name
}

func parseRules(raw []string) ([]validation.Rule, error) {
	rules := make([]validation.Rule, 0, len(raw))
	for _, entry := range raw {
		rule, err := validation.ParseRule(entry)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
