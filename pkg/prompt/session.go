// Package prompt fills a host schema interactively. Every answer is written
// through the host state relay and checked with the host's validation for
// that path, so field hooks and the validation error event behave as they do
// for a browser client.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-formhost/pkg/host"
	"github.com/goliatone/go-formhost/pkg/schema"
	"github.com/goliatone/go-formhost/pkg/validation"
)

const defaultMaxAttempts = 3

// fieldTree is implemented by the containers in package schema.
type fieldTree interface {
	Walk(fn func(field *schema.Field))
	ReadOnly() bool
}

// Session prompts for the fields of one host.
type Session struct {
	host        *host.Host
	driver      Driver
	logger      *slog.Logger
	maxAttempts int
}

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the prompt driver, the survey driver by default.
func WithDriver(driver Driver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxAttempts caps how many times a field is asked again after failing
// validation.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// New constructs a Session for h.
func New(h *host.Host, options ...Option) *Session {
	s := &Session{
		host:        h,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Fill prompts for every stateful leaf field of the named schema in
// declaration order, then validates the whole host. Read-only schemas are
// printed instead.
func (s *Session) Fill(ctx context.Context, schemaName string) (map[string]any, error) {
	tree := s.host.Schema(schemaName)
	if tree == nil {
		return nil, fmt.Errorf("%w: %q", host.ErrSchemaNotFound, schemaName)
	}
	fields, ok := tree.(fieldTree)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T", ErrUnsupportedSchema, schemaName, tree)
	}

	var leaves []*schema.Field
	fields.Walk(func(field *schema.Field) {
		if !field.IsGroup() && len(field.Children()) == 0 {
			leaves = append(leaves, field)
		}
	})

	if fields.ReadOnly() {
		for _, field := range leaves {
			if err := s.driver.Info(ctx, fmt.Sprintf("%s: %s", field.Label(), display(field.State()))); err != nil {
				return nil, err
			}
		}
		return s.host.StateSnapshot(), nil
	}

	for _, field := range leaves {
		if err := s.ask(ctx, field); err != nil {
			return nil, err
		}
	}
	return s.host.Validate(ctx)
}

func (s *Session) ask(ctx context.Context, field *schema.Field) error {
	path := field.StatePath()
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		value, err := s.answer(ctx, field)
		if err != nil {
			return err
		}
		s.host.SetState(path, value)

		_, err = s.host.ValidateOnly(ctx, path)
		if err == nil {
			return nil
		}
		var verr *validation.Error
		if !errors.As(err, &verr) {
			return err
		}
		s.logger.Debug("answer rejected", "path", path, "attempt", attempt)
		for _, msg := range verr.Messages[path] {
			if err := s.driver.Info(ctx, msg); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, path)
}

func (s *Session) answer(ctx context.Context, field *schema.Field) (any, error) {
	current := field.State()

	if options := choices(field); len(options) > 0 {
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      field.Label(),
			Options:      options,
			DefaultIndex: indexOf(options, display(current)),
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) {
			return "", nil
		}
		return options[idx], nil
	}

	if flag, ok := current.(bool); ok {
		return s.driver.Confirm(ctx, ConfirmConfig{Message: field.Label(), Default: flag})
	}

	return s.driver.Input(ctx, InputConfig{
		Message: field.Label(),
		Default: display(current),
		Help:    help(field.Rules()),
	})
}

func choices(field *schema.Field) []string {
	for _, rule := range field.Rules() {
		if rule.Kind == validation.RuleIn {
			return rule.Values()
		}
	}
	return nil
}

func help(rules []validation.Rule) string {
	parts := make([]string, 0, len(rules))
	for _, rule := range rules {
		parts = append(parts, rule.String())
	}
	return strings.Join(parts, ", ")
}

func display(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}
