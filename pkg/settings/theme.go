package settings

// ThemeApplier toggles the visual theme. It is called after every change with
// the current theme state, whichever setting changed, so it must be idempotent.
type ThemeApplier interface {
	ApplyTheme(dark bool)
}

// ThemeFunc adapts a function to ThemeApplier.
type ThemeFunc func(dark bool)

// ApplyTheme implements ThemeApplier.
func (f ThemeFunc) ApplyTheme(dark bool) { f(dark) }

// NopTheme ignores theme changes.
type NopTheme struct{}

// ApplyTheme implements ThemeApplier.
func (NopTheme) ApplyTheme(bool) {}
