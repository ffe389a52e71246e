package assets

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeResolver expands a leading "~/" to the user's home directory and joins
// relative locators onto BaseDir.
type HomeResolver struct {
	BaseDir string
	// HomeDir overrides os.UserHomeDir; used by tests.
	HomeDir func() (string, error)
}

// Expand returns the concrete path for locator. It never fails: when the home
// directory cannot be determined the locator is returned unchanged.
func (r HomeResolver) Expand(locator string) string {
	if locator == "~" || strings.HasPrefix(locator, "~/") {
		home := r.HomeDir
		if home == nil {
			home = os.UserHomeDir
		}
		dir, err := home()
		if err != nil || dir == "" {
			return locator
		}
		return filepath.Join(dir, strings.TrimPrefix(strings.TrimPrefix(locator, "~"), "/"))
	}

	if r.BaseDir != "" && locator != "" && !filepath.IsAbs(locator) {
		return filepath.Join(r.BaseDir, locator)
	}
	return locator
}
