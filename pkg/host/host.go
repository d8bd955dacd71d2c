package host

import (
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formhost/pkg/schema"
	"github.com/goliatone/go-formhost/pkg/validation"
)

const defaultLocale = "en"

// Host is the stateful component that owns schema trees. It serves a single
// interaction at a time and is not safe for concurrent use.
type Host struct {
	id     string
	logger *slog.Logger

	methods         map[string]Method
	strategies      []Strategy
	formFactory     func(h *Host) *schema.Form
	infolistFactory func(h *Host) *schema.Infolist

	validator         validation.Validator
	rules             validation.Rules
	messages          map[string]string
	attributes        map[string]string
	onValidationError func(err *validation.Error)

	dispatcher Dispatcher
	events     *EventQueue
	skipRender bool

	locale        string
	defaultLocale string
	driverFactory func(locale string) TranslatableContentDriver

	cache      *schemaCache
	discovered []string
	resolving  bool

	state       map[string]any
	oldState    map[string]any
	attachments map[string]any
}

var _ schema.Owner = (*Host)(nil)

// New constructs a Host identified by id. Missing collaborators fall back to
// built-in implementations: the kin-openapi backed validation engine, an
// in-memory event queue and a discarding logger.
func New(id string, options ...Option) *Host {
	h := &Host{
		id:            strings.TrimSpace(id),
		methods:       make(map[string]Method),
		rules:         make(validation.Rules),
		messages:      make(map[string]string),
		attributes:    make(map[string]string),
		defaultLocale: defaultLocale,
		cache:         newSchemaCache(),
		state:         make(map[string]any),
		oldState:      make(map[string]any),
		attachments:   make(map[string]any),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	h.applyDefaults()
	return h
}

func (h *Host) applyDefaults() {
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if h.validator == nil {
		h.validator = validation.NewEngine()
	}
	if h.events == nil {
		h.events = NewEventQueue()
	}
	if h.dispatcher == nil {
		h.dispatcher = h.events
	}
}

// ID implements schema.Owner.
func (h *Host) ID() string { return h.id }

// Define registers a host method under name, replacing any previous one.
// Registration belongs to setup; cached schemas are not re-resolved.
func (h *Host) Define(name string, method Method) {
	name = strings.TrimSpace(name)
	if name == "" || method == nil {
		return
	}
	h.methods[name] = method
}

// HasMethod reports whether a host method is registered under name.
func (h *Host) HasMethod(name string) bool {
	_, ok := h.methods[name]
	return ok
}

// SkipRender signals the enclosing component to skip its next render pass.
func (h *Host) SkipRender() { h.skipRender = true }

// ShouldSkipRender reports whether SkipRender was called.
func (h *Host) ShouldSkipRender() bool { return h.skipRender }
