package schemafile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formhost/pkg/host"
	"github.com/goliatone/go-formhost/pkg/schema"
	"github.com/goliatone/go-formhost/pkg/schemafile"
	"github.com/goliatone/go-formhost/pkg/testsupport"
	"github.com/goliatone/go-formhost/pkg/validation"
)

func TestLoad_YAML(t *testing.T) {
	file, err := schemafile.Load("testdata/contact.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff([]string{"contact", "summary"}, file.SchemaNames()); diff != "" {
		t.Fatalf("schema names mismatch (-want +got):\n%s", diff)
	}
	summary, ok := file.Lookup("summary")
	if !ok || summary.Kind != schemafile.KindInfolist {
		t.Fatalf("unexpected summary schema %+v", summary)
	}
	if file.Location() != "testdata/contact.yaml" {
		t.Fatalf("location = %q", file.Location())
	}
}

func TestOptions_ConfigureHost(t *testing.T) {
	file := testsupport.LoadDefinition(t, "testdata/contact.yaml")
	h := host.New("contact-page", file.Options()...)

	var names []string
	for _, cached := range h.CachedSchemas() {
		names = append(names, cached.Name)
	}
	if diff := cmp.Diff([]string{"contact", "summary"}, names); diff != "" {
		t.Fatalf("cached names mismatch (-want +got):\n%s", diff)
	}
	if _, ok := h.Schema("contact").(*schema.Form); !ok {
		t.Fatalf("contact should be a form, got %T", h.Schema("contact"))
	}
	if _, ok := h.Schema("summary").(*schema.Infolist); !ok {
		t.Fatalf("summary should be an infolist, got %T", h.Schema("summary"))
	}
	if h.ActiveSchemaLocale() != "fr" {
		t.Fatalf("locale = %q", h.ActiveSchemaLocale())
	}

	wantRules := validation.Rules{
		"data.email": {validation.Required(), validation.MaxLength(120)},
		"data.topic": {validation.In("sales", "support")},
	}
	if diff := cmp.Diff(wantRules, h.Rules()); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	_, err := h.Validate(context.Background())
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string][]string{"data.email": {"We need your Email address."}}
	if diff := cmp.Diff(want, verr.Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	component, err := h.SchemaComponent("contact.details.email")
	if err != nil || component == nil {
		t.Fatalf("component lookup failed: %v, %v", component, err)
	}
}

func TestOptions_FreshTreePerResolution(t *testing.T) {
	file, err := schemafile.Load("testdata/contact.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := host.New("a", file.Options()...).Schema("contact")
	second := host.New("b", file.Options()...).Schema("contact")
	if first == nil || first == second {
		t.Fatalf("each host should build its own tree")
	}
}

func TestLoad_JSONC(t *testing.T) {
	file, err := schemafile.Load("testdata/contact.jsonc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	contact, ok := file.Lookup("contact")
	if !ok {
		t.Fatalf("contact schema missing")
	}
	if diff := cmp.Diff("data", contact.StatePath); diff != "" {
		t.Fatalf("state path mismatch (-want +got):\n%s", diff)
	}
	if len(contact.Fields) != 2 || contact.Fields[0].Group != "details" {
		t.Fatalf("unexpected fields %+v", contact.Fields)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		format  schemafile.Format
		data    string
		invalid bool
	}{
		{name: "empty", format: schemafile.FormatYAML, data: "  "},
		{name: "unknown format", format: "toml", data: "schemas: []"},
		{name: "unknown key", format: schemafile.FormatYAML, data: "schemas: []\nextra: true"},
		{name: "malformed json", format: schemafile.FormatJSON, data: `{"schemas": [}`},
		{name: "missing name", format: schemafile.FormatYAML, data: "schemas:\n  - kind: form", invalid: true},
		{name: "duplicate name", format: schemafile.FormatYAML, data: "schemas:\n  - name: a\n  - name: a", invalid: true},
		{name: "unknown kind", format: schemafile.FormatYAML, data: "schemas:\n  - name: a\n    kind: table", invalid: true},
		{name: "field without name", format: schemafile.FormatYAML, data: "schemas:\n  - name: a\n    fields:\n      - label: x", invalid: true},
		{name: "name and group", format: schemafile.FormatYAML, data: "schemas:\n  - name: a\n    fields:\n      - name: x\n        group: y", invalid: true},
		{name: "bad sanitize", format: schemafile.FormatYAML, data: "schemas:\n  - name: a\n    fields:\n      - name: x\n        sanitize: all", invalid: true},
		{name: "bad field rule", format: schemafile.FormatYAML, data: "schemas:\n  - name: a\n    fields:\n      - name: x\n        rules: [\"maxLength:abc\"]", invalid: true},
		{name: "bad host rule", format: schemafile.FormatYAML, data: "schemas: []\nrules:\n  x: [\"min\"]", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schemafile.Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := errors.Is(err, schemafile.ErrInvalidDefinition); got != tt.invalid {
				t.Fatalf("errors.Is(ErrInvalidDefinition) = %v, want %v (%v)", got, tt.invalid, err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    schemafile.Format
		wantErr bool
	}{
		{path: "a.yaml", want: schemafile.FormatYAML},
		{path: "a.YML", want: schemafile.FormatYAML},
		{path: "a.json", want: schemafile.FormatJSON},
		{path: "a.jsonc", want: schemafile.FormatJSONC},
		{path: "a.toml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := schemafile.FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("format = %q, want %q", got, tt.want)
			}
		})
	}
}
