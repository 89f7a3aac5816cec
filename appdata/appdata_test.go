package appdata

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

// TestDir ensures the application name is normalized and joined under the
// platform data home, and that degenerate names fall back to the current
// directory.
func TestDir(t *testing.T) {
	tests := []struct {
		appName string
		want    string
	}{
		{"myapp", filepath.Join(xdg.DataHome, "myapp")},
		{"Myapp", filepath.Join(xdg.DataHome, "myapp")},
		{".myapp", filepath.Join(xdg.DataHome, "myapp")},
		{".Myapp", filepath.Join(xdg.DataHome, "myapp")},
		{" myapp ", filepath.Join(xdg.DataHome, "myapp")},
		{"", "."},
		{".", "."},
	}
	for i, test := range tests {
		if got := Dir(test.appName); got != test.want {
			t.Errorf("#%d (%q): got %s, want %s",
				i, test.appName, got, test.want)
		}
	}
}
