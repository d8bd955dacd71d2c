package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formhost/pkg/host"
	"github.com/goliatone/go-formhost/pkg/prompt"
	"github.com/goliatone/go-formhost/pkg/schema"
	"github.com/goliatone/go-formhost/pkg/validation"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	confirm   []bool
	asked     []string
	info      []string
}

func (s *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	s.asked = append(s.asked, "input:"+cfg.Message)
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	s.asked = append(s.asked, "confirm:"+cfg.Message)
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	s.asked = append(s.asked, "select:"+cfg.Message)
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

func contactHost(updates *[]string) *host.Host {
	return host.New("contact-page",
		host.WithState(map[string]any{"data": map[string]any{"newsletter": false}}),
		host.WithMethod("contactSchema", host.Builds(func(f *schema.Form) *schema.Form {
			f.SetStatePath("data")
			f.Schema(
				schema.NewGroup("details",
					schema.NewField("email").
						SetLabel("Email").
						AddRules(validation.Required(), validation.Pattern("^[^@]+@[^@]+$")).
						AfterStateUpdated(func(field *schema.Field, state, _ any) {
							*updates = append(*updates, field.StatePath())
						}),
				),
				schema.NewField("topic").AddRules(validation.In("sales", "support")),
				schema.NewField("newsletter"),
			)
			return f
		})),
	)
}

func TestFill_PromptsAndValidates(t *testing.T) {
	var updates []string
	h := contactHost(&updates)
	driver := &stubDriver{
		inputs:    []string{"not-an-email", "ada@example.com"},
		selectIdx: []int{1},
		confirm:   []bool{true},
	}

	got, err := prompt.New(h, prompt.WithDriver(driver)).Fill(context.Background(), "contact")
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}

	wantAsked := []string{"input:Email", "input:Email", "select:Topic", "confirm:Newsletter"}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"The Email field format is invalid."}, driver.info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"data.email", "data.email"}, updates); diff != "" {
		t.Fatalf("state updates mismatch (-want +got):\n%s", diff)
	}

	want := map[string]any{"data": map[string]any{"email": "ada@example.com", "topic": "support"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("validated mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(true, h.State("data.newsletter")); diff != "" {
		t.Fatalf("newsletter mismatch (-want +got):\n%s", diff)
	}

	events := h.DispatchedEvents()
	if len(events) != 1 || events[0].Name != host.EventFormValidationError {
		t.Fatalf("expected one validation error event, got %+v", events)
	}
}

func TestFill_TooManyAttempts(t *testing.T) {
	var updates []string
	h := contactHost(&updates)
	driver := &stubDriver{inputs: []string{"", ""}}

	_, err := prompt.New(h, prompt.WithDriver(driver), prompt.WithMaxAttempts(2)).Fill(context.Background(), "contact")
	if !errors.Is(err, prompt.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if len(driver.info) != 2 {
		t.Fatalf("expected a message per failed attempt, got %v", driver.info)
	}
}

func TestFill_ReadOnlySchemaPrints(t *testing.T) {
	h := host.New("page",
		host.WithState(map[string]any{"email": "ada@example.com"}),
		host.WithMethod("summarySchema", host.Builds(func(l *schema.Infolist) *schema.Infolist {
			l.Schema(schema.NewField("email"))
			return l
		})),
	)
	driver := &stubDriver{}

	got, err := prompt.New(h, prompt.WithDriver(driver)).Fill(context.Background(), "summary")
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if diff := cmp.Diff([]string{"Email: ada@example.com"}, driver.info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if len(driver.asked) != 0 {
		t.Fatalf("read-only schema should not prompt, asked %v", driver.asked)
	}
	if diff := cmp.Diff(map[string]any{"email": "ada@example.com"}, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_UnknownSchema(t *testing.T) {
	_, err := prompt.New(host.New("page"), prompt.WithDriver(&stubDriver{})).Fill(context.Background(), "missing")
	if !errors.Is(err, host.ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
}

func TestFill_DriverErrorStops(t *testing.T) {
	var updates []string
	driver := &stubDriver{}

	_, err := prompt.New(contactHost(&updates), prompt.WithDriver(driver)).Fill(context.Background(), "contact")
	if err == nil || len(updates) != 0 {
		t.Fatalf("driver error should stop the session: err=%v updates=%v", err, updates)
	}
}
