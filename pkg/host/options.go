package host

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-formhost/internal/datapath"
	"github.com/goliatone/go-formhost/pkg/schema"
	"github.com/goliatone/go-formhost/pkg/validation"
)

// Option customises the host configuration.
type Option func(*Host)

// WithLogger injects a structured logger. The host only logs at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithMethod registers a host method the resolver can turn into a schema:
// either under the schema name itself or under "<name>Schema".
func WithMethod(name string, method Method) Option {
	return func(h *Host) {
		h.Define(name, method)
	}
}

// WithStrategy registers a fallback resolver consulted when no host method
// matches a schema name. Strategies are tried in registration order.
func WithStrategy(strategy Strategy) Option {
	return func(h *Host) {
		if strategy == nil {
			return
		}
		h.strategies = append(h.strategies, strategy)
	}
}

// WithDiscovered queues schema names for resolution on the first full cache
// read, as Discover does.
func WithDiscovered(names ...string) Option {
	return func(h *Host) {
		h.Discover(names...)
	}
}

// WithFormFactory registers the specialised factory used for methods that
// take a *schema.Form.
func WithFormFactory(factory func(h *Host) *schema.Form) Option {
	return func(h *Host) {
		h.formFactory = factory
	}
}

// WithInfolistFactory registers the specialised factory used for methods
// that take a *schema.Infolist.
func WithInfolistFactory(factory func(h *Host) *schema.Infolist) Option {
	return func(h *Host) {
		h.infolistFactory = factory
	}
}

// WithValidator replaces the default validation engine.
func WithValidator(validator validation.Validator) Option {
	return func(h *Host) {
		h.validator = validator
	}
}

// WithRules declares the host's own validation rules. Cached schemas can
// override them per path.
func WithRules(rules validation.Rules) Option {
	return func(h *Host) {
		h.rules = h.rules.Merge(rules)
	}
}

// WithMessages declares custom validation messages keyed by "<path>.<kind>"
// or rule kind.
func WithMessages(messages map[string]string) Option {
	return func(h *Host) {
		for key, message := range messages {
			h.messages[strings.TrimSpace(key)] = message
		}
	}
}

// WithValidationAttributes declares the host's own attribute labels.
func WithValidationAttributes(attributes map[string]string) Option {
	return func(h *Host) {
		for path, label := range attributes {
			h.attributes[strings.TrimSpace(path)] = label
		}
	}
}

// WithValidationErrorHook registers the hook called before a validation
// failure is broadcast and returned.
func WithValidationErrorHook(hook func(err *validation.Error)) Option {
	return func(h *Host) {
		h.onValidationError = hook
	}
}

// WithDispatcher routes outbound events to dispatcher instead of the
// built-in queue.
func WithDispatcher(dispatcher Dispatcher) Option {
	return func(h *Host) {
		h.dispatcher = dispatcher
	}
}

// WithState seeds the host state.
func WithState(state map[string]any) Option {
	return func(h *Host) {
		for key, value := range state {
			h.state = datapath.Set(h.state, key, datapath.Clone(value))
		}
	}
}

// WithActiveLocale sets the locale schemas render content in.
func WithActiveLocale(locale string) Option {
	return func(h *Host) {
		h.locale = strings.TrimSpace(locale)
	}
}

// WithDefaultLocale sets the locale used when no active locale is set.
func WithDefaultLocale(locale string) Option {
	return func(h *Host) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			h.defaultLocale = trimmed
		}
	}
}

// WithTranslatableContentDriver registers the factory used by
// MakeTranslatableContentDriver.
func WithTranslatableContentDriver(factory func(locale string) TranslatableContentDriver) Option {
	return func(h *Host) {
		h.driverFactory = factory
	}
}
