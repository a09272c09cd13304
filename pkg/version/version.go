// Package version holds the build version, overridable with
// -ldflags "-X killick/pkg/version.Version=...".
package version

import "runtime/debug"

// Version is the release version of killick.
var Version = "v0.3.0"

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
	Revision  string `json:"revision,omitempty"`
}

// Get returns the build info, including the VCS revision when the binary
// was built from a checkout.
func Get() Info {
	info := Info{Version: Version}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			info.Revision = s.Value
		}
	}
	return info
}
