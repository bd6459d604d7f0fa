package osinfo

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformMapping(t *testing.T) {
	tests := []struct {
		goos, platform, family, ext string
	}{
		{"linux", "linux", "unix", ""},
		{"darwin", "macos", "unix", ""},
		{"windows", "windows", "windows", "exe"},
		{"freebsd", "freebsd", "unix", ""},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.platform, platform(tt.goos))
			assert.Equal(t, tt.family, family(tt.goos))
			assert.Equal(t, tt.ext, exeExtension(tt.goos))
		})
	}
}

func TestLocale(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}
	assert.Equal(t, "en-US", locale(env(map[string]string{"LANG": "en_US.UTF-8"})))
	assert.Equal(t, "de-DE", locale(env(map[string]string{"LC_ALL": "de_DE@euro", "LANG": "en_US"})))
	assert.Equal(t, "fr-FR", locale(env(map[string]string{"LC_ALL": "C", "LANG": "fr_FR"})))
	assert.Equal(t, "", locale(env(nil)))
}

func TestOSInfoCommand(t *testing.T) {
	p := &Provider{
		hostname: func() (string, error) { return "", errors.New("no host") },
		getenv:   func(string) string { return "" },
	}
	res, err := p.Commands()[0].Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.GOARCH, res.Data["arch"])
	assert.Equal(t, "", res.Data["hostname"])
	assert.Equal(t, runtime.NumCPU(), res.Data["num_cpu"])
}
