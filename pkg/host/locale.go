package host

// TranslatableContentDriver reads and writes locale specific record content
// for schemas. Implementations are supplied by the application.
type TranslatableContentDriver interface {
	ActiveLocale() string
}

// ActiveSchemaLocale returns the locale set with WithActiveLocale, or "".
func (h *Host) ActiveSchemaLocale() string { return h.locale }

// MakeTranslatableContentDriver builds the configured driver for the active
// locale, falling back to the default locale. Nil when no driver factory is
// configured.
func (h *Host) MakeTranslatableContentDriver() TranslatableContentDriver {
	if h.driverFactory == nil {
		return nil
	}
	locale := h.ActiveSchemaLocale()
	if locale == "" {
		locale = h.defaultLocale
	}
	return h.driverFactory(locale)
}
