package filesystem

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistry(t *testing.T, scopes ...string) *commands.Registry {
	t.Helper()
	p, err := New(scopes...)
	require.NoError(t, err)
	rt, err := shell.NewBuilder().WithLogger(zap.NewNop()).Provider(p).Build()
	require.NoError(t, err)
	return rt.Commands()
}

func run(t *testing.T, reg *commands.Registry, name string, args map[string]interface{}) (map[string]interface{}, error) {
	t.Helper()
	res, err := reg.Execute(context.Background(), name, args)
	if err != nil {
		return nil, err
	}
	require.True(t, res.Success)
	return res.Data, nil
}

func TestScopes(t *testing.T) {
	dir := t.TempDir()
	scopes := Scopes{DirScope(dir)}

	assert.True(t, scopes.Allows(filepath.Join(dir, "a.log")))
	assert.True(t, scopes.Allows(filepath.Join(dir, "nested", "b.log")))
	assert.False(t, scopes.Allows(filepath.Join(filepath.Dir(dir), "other")))

	_, err := scopes.check("path", "relative/file")
	assert.ErrorIs(t, err, commands.ErrInvalidArgument)

	_, err = scopes.check("path", filepath.Join(dir, "..", "escape"))
	assert.ErrorIs(t, err, ErrOutsideScope)
	assert.Contains(t, commands.UserMessage(err), "Path not allowed")
}

func TestDirScopeEscapesMeta(t *testing.T) {
	scope := DirScope("/tmp/we[ird]")
	assert.True(t, Scopes{scope}.Allows("/tmp/we[ird]/file"))
	assert.False(t, Scopes{scope}.Allows("/tmp/wei/file"))
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New("/tmp/[")
	assert.Error(t, err)
}

func TestWriteReadExists(t *testing.T) {
	dir := t.TempDir()
	reg := newRegistry(t, DirScope(dir))
	path := filepath.Join(dir, "notes", "todo.txt")

	data, err := run(t, reg, "exists", map[string]interface{}{"path": path})
	require.NoError(t, err)
	assert.Equal(t, false, data["exists"])

	_, err = run(t, reg, "write_text_file", map[string]interface{}{"path": path, "contents": "one\n"})
	require.NoError(t, err)
	_, err = run(t, reg, "write_text_file", map[string]interface{}{"path": path, "contents": "two\n", "append": true})
	require.NoError(t, err)

	data, err = run(t, reg, "read_text_file", map[string]interface{}{"path": path})
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", data["contents"])
	assert.NotEmpty(t, data["charset"])

	data, err = run(t, reg, "exists", map[string]interface{}{"path": path})
	require.NoError(t, err)
	assert.Equal(t, true, data["exists"])
	assert.Equal(t, false, data["is_dir"])
}

func TestOutsideScopeIsRejected(t *testing.T) {
	reg := newRegistry(t, DirScope(t.TempDir()))
	outside := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	res, err := reg.Execute(context.Background(), "read_text_file", map[string]interface{}{"path": outside})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutsideScope))
	assert.False(t, res.Success)
}

func TestFileInfo(t *testing.T) {
	dir := t.TempDir()
	reg := newRegistry(t, DirScope(dir))
	path := filepath.Join(dir, "page.html")
	page := []byte("<!DOCTYPE html><html><body>hi</body></html>")
	require.NoError(t, os.WriteFile(path, page, 0o644))

	data, err := run(t, reg, "file_info", map[string]interface{}{"path": path})
	require.NoError(t, err)
	assert.Equal(t, "page.html", data["name"])
	assert.Equal(t, int64(len(page)), data["size"])
	assert.Contains(t, data["mime"], "text/html")
	assert.Equal(t, false, data["is_dir"])

	data, err = run(t, reg, "file_info", map[string]interface{}{"path": dir})
	require.NoError(t, err)
	assert.Equal(t, true, data["is_dir"])
	assert.NotContains(t, data, "mime")
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	reg := newRegistry(t, DirScope(dir))
	for _, name := range []string{"a.log", "b.txt", "nested/c.log", "nested/deep/d.log"} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	data, err := run(t, reg, "find_files", map[string]interface{}{"path": dir, "pattern": "**/*.log"})
	require.NoError(t, err)
	assert.Equal(t, 3, data["count"])
	assert.Equal(t, []string{
		filepath.Join(dir, "a.log"),
		filepath.Join(dir, "nested", "c.log"),
		filepath.Join(dir, "nested", "deep", "d.log"),
	}, data["matches"])

	_, err = run(t, reg, "find_files", map[string]interface{}{"path": dir, "pattern": "[bad"})
	assert.ErrorIs(t, err, commands.ErrInvalidArgument)
}

func TestCompressFile(t *testing.T) {
	dir := t.TempDir()
	reg := newRegistry(t, DirScope(dir))
	path := filepath.Join(dir, "app.log")
	payload := []byte("line one\nline two\nline three\n")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	data, err := run(t, reg, "compress_file", map[string]interface{}{"path": path})
	require.NoError(t, err)
	assert.Equal(t, path+".gz", data["dest"])
	assert.Equal(t, int64(len(payload)), data["original_size"])

	f, err := os.Open(path + ".gz")
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	data, err = run(t, reg, "compress_file", map[string]interface{}{"path": path, "format": "zstd"})
	require.NoError(t, err)
	assert.Equal(t, path+".zst", data["dest"])
	assert.FileExists(t, path+".zst")

	_, err = run(t, reg, "compress_file", map[string]interface{}{"path": path, "format": "rar"})
	assert.ErrorIs(t, err, commands.ErrInvalidArgument)

	_, err = run(t, reg, "compress_file", map[string]interface{}{"path": path, "dest": "/elsewhere.gz"})
	assert.ErrorIs(t, err, ErrOutsideScope)
}
