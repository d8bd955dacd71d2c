package host

import (
	"context"
	"errors"

	"github.com/goliatone/go-formhost/pkg/validation"
)

// Validate runs the validator over the prepared host state using every rule
// declared by the host and its cached schemas. A *validation.Error is
// observed (hook, then form-validation-error event) and returned unchanged.
func (h *Host) Validate(ctx context.Context) (map[string]any, error) {
	return h.validate(ctx, h.Rules())
}

// ValidateOnly validates a single state path with the rules declared for it.
func (h *Host) ValidateOnly(ctx context.Context, path string) (map[string]any, error) {
	return h.validate(ctx, h.Rules().Only(path))
}

func (h *Host) validate(ctx context.Context, rules validation.Rules) (map[string]any, error) {
	validated, err := h.validator.Validate(ctx, validation.Input{
		Data:       h.PrepareForValidation(h.StateSnapshot()),
		Rules:      rules,
		Messages:   h.messages,
		Attributes: h.ValidationAttributes(),
	})
	if err != nil {
		return nil, h.observeValidationError(ctx, err)
	}
	return validated, nil
}

func (h *Host) observeValidationError(ctx context.Context, err error) error {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return err
	}
	h.logger.Debug("validation failed", "host", h.id, "paths", verr.Paths())
	if h.onValidationError != nil {
		h.onValidationError(verr)
	}
	h.Dispatch(ctx, EventFormValidationError, map[string]any{"hostId": h.id})
	return err
}

// PrepareForValidation threads state through every cached schema's
// MutateStateForValidation in cache order.
func (h *Host) PrepareForValidation(state map[string]any) map[string]any {
	for _, cached := range h.CachedSchemas() {
		if cached.Tree == nil {
			continue
		}
		state = cached.Tree.MutateStateForValidation(state)
	}
	return state
}

// Rules merges the host's own rules with every cached schema's rules in
// cache order; later declarations win per path.
func (h *Host) Rules() validation.Rules {
	rules := h.rules.Merge(nil)
	for _, cached := range h.CachedSchemas() {
		if cached.Tree == nil {
			continue
		}
		rules = rules.Merge(cached.Tree.ValidationRules())
	}
	return rules
}

// ValidationAttributes merges the host's own attribute labels with every
// cached schema's labels in cache order; later declarations win per path.
func (h *Host) ValidationAttributes() map[string]string {
	attributes := make(map[string]string, len(h.attributes))
	for path, label := range h.attributes {
		attributes[path] = label
	}
	for _, cached := range h.CachedSchemas() {
		if cached.Tree == nil {
			continue
		}
		for path, label := range cached.Tree.ValidationAttributes() {
			attributes[path] = label
		}
	}
	return attributes
}
