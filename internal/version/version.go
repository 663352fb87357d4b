// Package version holds build version information.
package version

// Version is the repolens version, overridable at build time with
// -ldflags "-X repolens/internal/version.Version=...".
var Version = "0.3.0"
