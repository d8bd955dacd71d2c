package schema_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formhost/internal/datapath"
	"github.com/goliatone/go-formhost/pkg/schema"
	"github.com/goliatone/go-formhost/pkg/validation"
)

type stubOwner struct {
	state map[string]any
	old   map[string]any
}

func (o *stubOwner) ID() string { return "stub" }

func (o *stubOwner) State(path string) any { return datapath.Get(o.state, path) }

func (o *stubOwner) OldState(path string) any { return datapath.Get(o.old, path) }

func contactForm(owner schema.Owner) *schema.Form {
	form := schema.NewForm(owner)
	form.SetKey("contact")
	form.SetStatePath("data").Schema(
		schema.NewField("email").Required().AddRules(validation.MaxLength(255)),
		schema.NewGroup("details",
			schema.NewField("first_name").SetLabel("Given name").Sanitize(),
			schema.NewField("address").Schema(
				schema.NewField("city").Required(),
			),
		),
	)
	return form
}

func TestComponentLookup(t *testing.T) {
	form := contactForm(&stubOwner{})

	cases := []struct {
		name     string
		key      string
		absolute bool
		wantKey  string
	}{
		{name: "absolute top level", key: "contact.email", absolute: true, wantKey: "contact.email"},
		{name: "absolute nested in group", key: "contact.details.first_name", absolute: true, wantKey: "contact.details.first_name"},
		{name: "relative", key: "details.address.city", absolute: false, wantKey: "contact.details.address.city"},
		{name: "absolute with foreign prefix", key: "other.email", absolute: true},
		{name: "missing", key: "contact.phone", absolute: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			component := form.Component(tc.key, tc.absolute)
			if tc.wantKey == "" {
				if component != nil {
					t.Fatalf("expected nil component, got %q", component.Key())
				}
				return
			}
			if component == nil {
				t.Fatalf("component %q not found", tc.key)
			}
			if got := component.Key(); got != tc.wantKey {
				t.Fatalf("Key() = %q, want %q", got, tc.wantKey)
			}
		})
	}
}

func TestValidationRulesAndAttributes(t *testing.T) {
	form := contactForm(&stubOwner{})

	wantRules := validation.Rules{
		"data.email":        {validation.Required(), validation.MaxLength(255)},
		"data.address.city": {validation.Required()},
	}
	if diff := cmp.Diff(wantRules, form.ValidationRules()); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	wantAttributes := map[string]string{
		"data.email":        "Email",
		"data.first_name":   "Given name",
		"data.address":      "Address",
		"data.address.city": "City",
	}
	if diff := cmp.Diff(wantAttributes, form.ValidationAttributes()); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestMutateStateForValidation(t *testing.T) {
	form := schema.NewForm(&stubOwner{})
	form.Schema(
		schema.NewField("name").Sanitize().MutateForValidation(func(value any) any {
			text, _ := value.(string)
			return strings.TrimSpace(text)
		}),
		schema.NewField("bio").SanitizeHTML(),
		schema.NewField("untouched").Sanitize(),
	)

	input := map[string]any{
		"name": " <b>Jane</b> ",
		"bio":  `<p>Hi</p><script>alert(1)</script>`,
	}
	got := form.MutateStateForValidation(input)

	want := map[string]any{
		"name": "Jane",
		"bio":  "<p>Hi</p>",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mutated state mismatch (-want +got):\n%s", diff)
	}
	if input["name"] != " <b>Jane</b> " {
		t.Fatalf("input state was mutated: %v", input["name"])
	}
}

func TestInfolistIsReadOnly(t *testing.T) {
	list := schema.NewInfolist(&stubOwner{})
	list.Schema(schema.NewField("email").Required().Sanitize())

	if got := list.ValidationRules(); len(got) != 0 {
		t.Fatalf("infolist rules = %v", got)
	}
	if got := list.ValidationAttributes(); len(got) != 0 {
		t.Fatalf("infolist attributes = %v", got)
	}
	state := map[string]any{"email": "<b>x</b>"}
	if diff := cmp.Diff(state, list.MutateStateForValidation(state)); diff != "" {
		t.Fatalf("infolist mutated state (-want +got):\n%s", diff)
	}
}

func TestCallAfterStateUpdated(t *testing.T) {
	owner := &stubOwner{
		state: map[string]any{"data": map[string]any{"email": "new@example.com"}},
		old:   map[string]any{"data": map[string]any{"email": "old@example.com"}},
	}

	var gotState, gotOld any
	calls := 0
	form := schema.NewForm(owner)
	form.SetStatePath("data").Schema(
		schema.NewField("email").AfterStateUpdated(func(field *schema.Field, state, old any) {
			calls++
			gotState, gotOld = state, old
		}),
	)

	if !form.CallAfterStateUpdated("data.email") {
		t.Fatalf("expected update to be handled")
	}
	if form.CallAfterStateUpdated("data.phone") {
		t.Fatalf("unexpected handling of unknown path")
	}
	if calls != 1 || gotState != "new@example.com" || gotOld != "old@example.com" {
		t.Fatalf("hook calls=%d state=%v old=%v", calls, gotState, gotOld)
	}
}

func TestMakeOnNilReceivers(t *testing.T) {
	owner := &stubOwner{}

	var form *schema.Form
	if _, ok := form.Make(owner).(*schema.Form); !ok {
		t.Fatalf("nil *Form should make a *Form")
	}
	var list *schema.Infolist
	if _, ok := list.Make(owner).(*schema.Infolist); !ok {
		t.Fatalf("nil *Infolist should make an *Infolist")
	}
	var container *schema.Container
	made, ok := container.Make(owner).(*schema.Container)
	if !ok || made.Owner() != owner {
		t.Fatalf("nil *Container should make a *Container bound to owner")
	}
}

func TestFieldMethods(t *testing.T) {
	field := schema.NewField("email").
		Define("internal", func(args ...any) (any, error) { return "internal", nil }).
		Expose("refresh", func(args ...any) (any, error) { return len(args), nil }).
		ExposeRenderless("touch", func(args ...any) (any, error) { return nil, nil })

	if m, ok := field.Method("internal"); !ok || m.Exposed {
		t.Fatalf("internal method should exist and not be exposed: %+v", m)
	}
	if m, ok := field.Method("refresh"); !ok || !m.Exposed || m.Renderless {
		t.Fatalf("refresh method flags wrong: %+v", m)
	}
	if m, ok := field.Method("touch"); !ok || !m.Exposed || !m.Renderless {
		t.Fatalf("touch method flags wrong: %+v", m)
	}
	if _, ok := field.Method("missing"); ok {
		t.Fatalf("missing method reported as present")
	}
}
