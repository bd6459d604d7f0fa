package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/GriffinCanCode/deskshell/internal/shell"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/saintfish/chardet"
)

// MaxReadSize caps read_text_file.
const MaxReadSize = 10 << 20

// Provider implements the filesystem commands.
type Provider struct {
	scopes Scopes
}

// New creates a provider allowing the given scope patterns.
func New(scopes ...string) (*Provider, error) {
	s := Scopes(scopes)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Provider{scopes: s}, nil
}

// Name implements shell.Provider.
func (p *Provider) Name() string { return "filesystem" }

// Setup implements shell.Provider.
func (p *Provider) Setup(rt *shell.Runtime) error {
	return rt.RegisterCommands(p.Commands()...)
}

// Scopes returns the allowed patterns.
func (p *Provider) Scopes() Scopes { return p.scopes }

// Commands returns the provider's command set.
func (p *Provider) Commands() []commands.Command {
	pathParam := types.Parameter{Name: "path", Type: "string", Description: "Absolute path", Required: true}

	return []commands.Command{
		commands.NewFunc(types.CommandDef{
			Name:        "read_text_file",
			Description: "Read a text file",
			Category:    types.CategoryFilesystem,
			Parameters:  []types.Parameter{pathParam},
		}, p.readTextFile),
		commands.NewFunc(types.CommandDef{
			Name:        "write_text_file",
			Description: "Write or append to a text file",
			Category:    types.CategoryFilesystem,
			Parameters: []types.Parameter{
				pathParam,
				{Name: "contents", Type: "string", Description: "Text to write", Required: true},
				{Name: "append", Type: "boolean", Description: "Append instead of truncating"},
			},
		}, p.writeTextFile),
		commands.NewFunc(types.CommandDef{
			Name:        "exists",
			Description: "Check whether a path exists",
			Category:    types.CategoryFilesystem,
			Parameters:  []types.Parameter{pathParam},
		}, p.exists),
		commands.NewFunc(types.CommandDef{
			Name:        "file_info",
			Description: "Get size, mode, modification time and MIME type",
			Category:    types.CategoryFilesystem,
			Parameters:  []types.Parameter{pathParam},
		}, p.fileInfo),
		commands.NewFunc(types.CommandDef{
			Name:        "find_files",
			Description: "Find files below a directory matching a glob",
			Category:    types.CategoryFilesystem,
			Parameters: []types.Parameter{
				pathParam,
				{Name: "pattern", Type: "string", Description: "doublestar pattern relative to path", Required: true},
			},
		}, p.findFiles),
		commands.NewFunc(types.CommandDef{
			Name:        "compress_file",
			Description: "Compress a file with gzip or zstd",
			Category:    types.CategoryFilesystem,
			Parameters: []types.Parameter{
				pathParam,
				{Name: "dest", Type: "string", Description: "Output path; defaults to path plus extension"},
				{Name: "format", Type: "string", Description: "gzip (default) or zstd"},
			},
		}, p.compressFile),
	}
}

func (p *Provider) readTextFile(_ context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	path, err := p.scopes.resolve(args, "path")
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxReadSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, MaxReadSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"contents": string(data),
		"size":     len(data),
		"charset":  detectCharset(data),
	}, nil
}

// detectCharset guesses the encoding, defaulting to utf-8.
func detectCharset(data []byte) string {
	if len(data) == 0 {
		return "utf-8"
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

func (p *Provider) writeTextFile(_ context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	path, err := p.scopes.resolve(args, "path")
	if err != nil {
		return nil, err
	}
	contents, err := commands.StringArg(args, "contents")
	if err != nil {
		return nil, err
	}
	appendMode, err := commands.OptionalBool(args, "append", false)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}
	n, err := f.WriteString(contents)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"written": n}, nil
}

func (p *Provider) exists(_ context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	path, err := p.scopes.resolve(args, "path")
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return map[string]interface{}{"exists": false, "is_dir": false}, nil
	case err != nil:
		return nil, err
	}
	return map[string]interface{}{"exists": true, "is_dir": info.IsDir()}, nil
}

func (p *Provider) fileInfo(_ context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	path, err := p.scopes.resolve(args, "path")
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"name":     info.Name(),
		"path":     path,
		"size":     info.Size(),
		"mode":     info.Mode().String(),
		"modified": info.ModTime().UTC().Format(time.RFC3339),
		"is_dir":   info.IsDir(),
	}
	if !info.IsDir() {
		mime, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, err
		}
		data["mime"] = mime.String()
		data["extension"] = mime.Extension()
	}
	return data, nil
}

func (p *Provider) findFiles(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	root, err := p.scopes.resolve(args, "path")
	if err != nil {
		return nil, err
	}
	pattern, err := commands.StringArg(args, "pattern")
	if err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &commands.InvalidArgumentError{Name: "pattern", Reason: "invalid glob"}
	}

	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			mu.Lock()
			matches = append(matches, path)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find failed: %w", err)
	}

	sort.Strings(matches)
	return map[string]interface{}{"matches": matches, "count": len(matches)}, nil
}

var compressExt = map[string]string{"gzip": ".gz", "zstd": ".zst"}

func (p *Provider) compressFile(_ context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	src, err := p.scopes.resolve(args, "path")
	if err != nil {
		return nil, err
	}
	format, err := commands.OptionalString(args, "format", "gzip")
	if err != nil {
		return nil, err
	}
	ext, ok := compressExt[format]
	if !ok {
		return nil, &commands.InvalidArgumentError{Name: "format", Reason: "must be gzip or zstd"}
	}
	destRaw, err := commands.OptionalString(args, "dest", src+ext)
	if err != nil {
		return nil, err
	}
	dest, err := p.scopes.check("dest", destRaw)
	if err != nil {
		return nil, err
	}
	if dest == src {
		return nil, &commands.InvalidArgumentError{Name: "dest", Reason: "must differ from path"}
	}

	in, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return nil, err
	}

	n, err := compress(out, in, format)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return nil, fmt.Errorf("compress %s: %w", src, err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"dest":            dest,
		"format":          format,
		"original_size":   n,
		"compressed_size": info.Size(),
	}, nil
}

func compress(w io.Writer, r io.Reader, format string) (int64, error) {
	var enc io.WriteCloser
	switch format {
	case "zstd":
		z, err := zstd.NewWriter(w)
		if err != nil {
			return 0, err
		}
		enc = z
	default:
		enc = gzip.NewWriter(w)
	}

	n, err := io.Copy(enc, r)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	return n, err
}
