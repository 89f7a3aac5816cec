// Package appdata resolves the data directory for an application, deferring
// to the XDG base directory specification for the platform specific root.
package appdata

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Dir returns the data directory for the named application, a subdirectory
// of the platform data home named after the lowercased application name. An
// empty or "." name yields the current directory so callers degrade to a
// relative path rather than writing into the data home root.
func Dir(appName string) string {
	appName = strings.TrimSpace(appName)
	appName = strings.TrimPrefix(appName, ".")
	if appName == "" {
		return "."
	}
	return filepath.Join(xdg.DataHome, strings.ToLower(appName))
}
