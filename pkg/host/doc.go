// Package host implements the stateful side of a server-rendered component
// that owns schema trees.
//
// Schemas are resolved lazily by name. Host methods are registered at setup
// with one of three variants:
//
//	h := host.New("contact-page",
//	    host.WithMethod("contactSchema", host.Builds(func(s *schema.Container) *schema.Container {
//	        s.Schema(schema.NewField("email").Required())
//	        return s
//	    })),
//	)
//	tree := h.Schema("contact") // built once, keyed "contact", then cached
//
// Builds receives a fresh tree of its declared type (a specialised form or
// infolist factory when configured, the type's own Make otherwise), Returns
// produces the tree itself, and Plain never yields a schema. Names nobody
// claims fall through to registered strategies such as MountedActions.
//
// Validation wraps an external validation.Validator: state is passed through
// every cached schema's mutation hook, rules and labels are merged in cache
// order, and a *validation.Error is observed (hook, form-validation-error
// event) before being returned unchanged. SetState relays each update to
// every cached schema after snapshotting the previous root value.
package host
