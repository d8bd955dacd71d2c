package host_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formhost/pkg/host"
	"github.com/goliatone/go-formhost/pkg/schema"
	"github.com/goliatone/go-formhost/pkg/validation"
)

func TestValidate_FailureIsObservedOnce(t *testing.T) {
	var hooked []*validation.Error
	h := host.New("contact-page",
		host.WithMethod("contactSchema", host.Builds(func(s *schema.Container) *schema.Container {
			return s.Schema(schema.NewField("email").Required())
		})),
		host.WithValidationErrorHook(func(err *validation.Error) {
			hooked = append(hooked, err)
		}),
	)
	h.Schema("contact")

	_, err := h.Validate(context.Background())

	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	if len(hooked) != 1 || hooked[0] != verr {
		t.Fatalf("hook should receive the returned error exactly once, got %d", len(hooked))
	}

	wantMessages := map[string][]string{"email": {"The Email field is required."}}
	if diff := cmp.Diff(wantMessages, verr.Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	wantEvents := []host.Event{{
		Name:   host.EventFormValidationError,
		Params: map[string]any{"hostId": "contact-page"},
	}}
	if diff := cmp.Diff(wantEvents, h.DispatchedEvents()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ReturnsIdenticalError(t *testing.T) {
	want := validation.NewError(map[string][]string{"email": {"taken"}})
	h := host.New("page", host.WithValidator(validation.ValidatorFunc(func(context.Context, validation.Input) (map[string]any, error) {
		return nil, want
	})))

	_, err := h.Validate(context.Background())
	if err != want {
		t.Fatalf("validation error should be returned unchanged, got %v", err)
	}
}

func TestValidate_OtherErrorsAreNotObserved(t *testing.T) {
	boom := errors.New("boom")
	hooked := 0
	var dispatched []host.Event
	h := host.New("page",
		host.WithValidator(validation.ValidatorFunc(func(context.Context, validation.Input) (map[string]any, error) {
			return nil, boom
		})),
		host.WithValidationErrorHook(func(*validation.Error) { hooked++ }),
		host.WithDispatcher(host.DispatcherFunc(func(_ context.Context, event host.Event) {
			dispatched = append(dispatched, event)
		})),
	)

	_, err := h.Validate(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if hooked != 0 || len(dispatched) != 0 {
		t.Fatalf("non validation errors should not be observed: hooked=%d events=%d", hooked, len(dispatched))
	}
}

func TestValidate_SuccessHasNoSideEffects(t *testing.T) {
	hooked := 0
	h := host.New("page",
		host.WithState(map[string]any{"email": "ada@example.com", "extra": true}),
		host.WithRules(validation.Rules{"email": {validation.Required()}}),
		host.WithValidationErrorHook(func(*validation.Error) { hooked++ }),
	)

	got, err := h.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"email": "ada@example.com"}, got); diff != "" {
		t.Fatalf("validated mismatch (-want +got):\n%s", diff)
	}
	if hooked != 0 || len(h.DispatchedEvents()) != 0 {
		t.Fatalf("success should not be observed")
	}
}

func TestValidate_PassesPreparedInput(t *testing.T) {
	var got validation.Input
	h := host.New("page",
		host.WithState(map[string]any{"data": map[string]any{"bio": "<b>hi</b>", "name": "  Ada "}}),
		host.WithRules(validation.Rules{"data.name": {validation.MinLength(1)}}),
		host.WithMessages(map[string]string{"data.name.minLength": "too short"}),
		host.WithValidationAttributes(map[string]string{"data.name": "full name"}),
		host.WithValidator(validation.ValidatorFunc(func(_ context.Context, in validation.Input) (map[string]any, error) {
			got = in
			return in.Data, nil
		})),
		host.WithMethod("profileSchema", host.Builds(func(f *schema.Form) *schema.Form {
			f.SetStatePath("data")
			f.Schema(
				schema.NewField("bio").Sanitize(),
				schema.NewField("name").
					SetLabel("Name").
					AddRules(validation.Required(), validation.MaxLength(20)).
					MutateForValidation(func(v any) any {
						s, _ := v.(string)
						return strings.TrimSpace(s)
					}),
			)
			return f
		})),
	)
	h.Schema("profile")

	if _, err := h.Validate(context.Background()); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	want := validation.Input{
		Data:     map[string]any{"data": map[string]any{"bio": "hi", "name": "Ada"}},
		Rules:    validation.Rules{"data.name": {validation.Required(), validation.MaxLength(20)}},
		Messages: map[string]string{"data.name.minLength": "too short"},
		Attributes: map[string]string{
			"data.bio":  "Bio",
			"data.name": "Name",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff("  Ada ", h.State("data.name")); diff != "" {
		t.Fatalf("host state should not be mutated (-want +got):\n%s", diff)
	}
}

func TestValidateOnly_UsesPathRules(t *testing.T) {
	h := host.New("page",
		host.WithState(map[string]any{"email": "", "name": "Ada"}),
		host.WithRules(validation.Rules{
			"email": {validation.Required()},
			"name":  {validation.Required()},
		}),
	)

	got, err := h.ValidateOnly(context.Background(), "name")
	if err != nil {
		t.Fatalf("ValidateOnly: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada"}, got); diff != "" {
		t.Fatalf("validated mismatch (-want +got):\n%s", diff)
	}

	_, err = h.ValidateOnly(context.Background(), "email")
	var verr *validation.Error
	if !errors.As(err, &verr) || !verr.Has("email") {
		t.Fatalf("expected email failure, got %v", err)
	}
	if len(h.DispatchedEvents()) != 1 {
		t.Fatalf("expected one event, got %d", len(h.DispatchedEvents()))
	}
}

func TestRules_LaterSchemasWin(t *testing.T) {
	h := host.New("page",
		host.WithRules(validation.Rules{"email": {validation.Required()}, "name": {validation.Required()}}),
		host.WithMethod("firstSchema", host.Builds(func(s *schema.Container) *schema.Container {
			return s.Schema(schema.NewField("email").AddRules(validation.MaxLength(10)))
		})),
		host.WithMethod("secondSchema", host.Builds(func(s *schema.Container) *schema.Container {
			return s.Schema(schema.NewField("email").AddRules(validation.MaxLength(50)))
		})),
	)
	h.Discover("first", "second")

	want := validation.Rules{
		"email": {validation.MaxLength(50)},
		"name":  {validation.Required()},
	}
	if diff := cmp.Diff(want, h.Rules()); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestInfolistContributesNoValidation(t *testing.T) {
	h := host.New("page",
		host.WithState(map[string]any{"email": ""}),
		host.WithMethod("viewSchema", host.Builds(func(l *schema.Infolist) *schema.Infolist {
			l.Schema(schema.NewField("email").Required())
			return l
		})),
	)
	h.Schema("view")

	if len(h.Rules()) != 0 {
		t.Fatalf("infolist rules should be ignored, got %v", h.Rules())
	}
	if _, err := h.Validate(context.Background()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
