package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var Version string

// Get returns the release tag, e.g. v2.0.0
func Get() string {
	return strings.TrimSpace(Version)
}

// Number returns the release without its "v" prefix, as stored in the platform config
func Number() string {
	return strings.TrimPrefix(Get(), "v")
}
