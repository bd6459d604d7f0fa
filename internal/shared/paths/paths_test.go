package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

func TestResolvePerPlatform(t *testing.T) {
	tests := []struct {
		goos    string
		wantLog string
	}{
		{"linux", filepath.Join("/cfg", "com.example.app")},
		{"windows", filepath.Join("/cfg", "com.example.app")},
		{"darwin", filepath.Join("/home/u", "Library", "Logs", "com.example.app")},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			app, err := resolve(tt.goos, "com.example.app", fixed("/cfg"), fixed("/home/u"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantLog, app.LogDir)
			assert.Equal(t, filepath.Join("/cfg", "com.example.app"), app.DataDir)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	broken := func() (string, error) { return "", errors.New("no home") }

	_, err := resolve("linux", "id", broken, fixed("/h"))
	assert.Error(t, err)

	_, err = resolve("darwin", "id", fixed("/c"), broken)
	assert.Error(t, err)

	_, err = resolve("linux", "", fixed("/c"), fixed("/h"))
	assert.Error(t, err)
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("com.example.deskshell"))
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "/abs"} {
		assert.Error(t, ValidateIdentifier(bad), bad)
	}
}

func TestLogFile(t *testing.T) {
	app := App{LogDir: "/logs"}
	assert.Equal(t, filepath.Join("/logs", "Desk.log"), app.LogFile(LogFileName("Desk")))
}
