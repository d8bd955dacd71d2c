package validation

import "context"

// Input carries everything a Validator needs to evaluate one request.
type Input struct {
	// Data is the candidate state, addressed by dotted paths.
	Data map[string]any
	// Rules lists the constraints per state path.
	Rules Rules
	// Messages overrides message templates. Keys are either "<path>.<kind>"
	// or a bare rule kind.
	Messages map[string]string
	// Attributes maps state paths to the human label used in messages.
	Attributes map[string]string
}

// Validator evaluates rules against candidate data. Implementations return
// the validated subset of Data on success and a *Error when any rule fails.
// Any other error signals a configuration or runtime problem.
type Validator interface {
	Validate(ctx context.Context, in Input) (map[string]any, error)
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(ctx context.Context, in Input) (map[string]any, error)

// Validate calls f.
func (f ValidatorFunc) Validate(ctx context.Context, in Input) (map[string]any, error) {
	return f(ctx, in)
}
