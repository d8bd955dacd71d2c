package schemafile

import (
	"github.com/goliatone/go-formhost/pkg/host"
	"github.com/goliatone/go-formhost/pkg/schema"
)

// Options turns the definition into host options. Every schema is registered
// as a "<name>Schema" method that builds fresh fields on each resolution, and
// queued for discovery so full cache reads include it.
func (f *File) Options() []host.Option {
	options := make([]host.Option, 0, len(f.Schemas)+6)
	for _, s := range f.Schemas {
		options = append(options, host.WithMethod(s.Name+"Schema", s.Method()))
	}
	options = append(options,
		host.WithDiscovered(f.SchemaNames()...),
		host.WithRules(f.rules),
		host.WithValidationAttributes(f.Attributes),
		host.WithMessages(f.Messages),
		host.WithState(f.State),
	)
	if f.Locale != "" {
		options = append(options, host.WithActiveLocale(f.Locale))
	}
	return options
}

// Method returns the host method building the declared tree.
func (s Schema) Method() host.Method {
	switch s.Kind {
	case KindForm:
		return host.Builds(func(form *schema.Form) *schema.Form {
			s.populate(&form.Container)
			return form
		})
	case KindInfolist:
		return host.Builds(func(list *schema.Infolist) *schema.Infolist {
			s.populate(&list.Container)
			return list
		})
	default:
		return host.Builds(func(container *schema.Container) *schema.Container {
			s.populate(container)
			return container
		})
	}
}

func (s Schema) populate(container *schema.Container) {
	if s.StatePath != "" {
		container.SetStatePath(s.StatePath)
	}
	container.Schema(buildFields(s.Fields)...)
}

func buildFields(defs []Field) []*schema.Field {
	fields := make([]*schema.Field, 0, len(defs))
	for _, def := range defs {
		fields = append(fields, def.build())
	}
	return fields
}

func (f Field) build() *schema.Field {
	if f.Group != "" {
		group := schema.NewGroup(f.Group, buildFields(f.Fields)...)
		if f.Label != "" {
			group.SetLabel(f.Label)
		}
		return group
	}

	field := schema.NewField(f.Name).AddRules(f.rules...)
	if f.Label != "" {
		field.SetLabel(f.Label)
	}
	switch f.Sanitize {
	case SanitizeStrict:
		field.Sanitize()
	case SanitizeHTML:
		field.SanitizeHTML()
	}
	return field.Schema(buildFields(f.Fields)...)
}
