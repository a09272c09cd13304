package config

// Persistent state keys (Registry)
const (
	// KeySettings holds the whole user settings map as one JSON object.
	KeySettings = "killick-settings"
)

// User setting names.
const (
	SettingSpeedUnit    = "speedUnit"
	SettingDistanceUnit = "distanceUnit"
	SettingDepthUnit    = "depthUnit"
	SettingTheme        = "theme"
)

// ThemeDark is the only theme value that switches the dashboard to dark mode.
const ThemeDark = "dark"
