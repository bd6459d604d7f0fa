package filesystem

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/bmatcuk/doublestar/v4"
)

// ErrOutsideScope matches paths no scope pattern allows.
var ErrOutsideScope = errors.New("path outside allowed scope")

// ScopeError names the rejected path.
type ScopeError struct {
	Path string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("path %q is outside the allowed scope", e.Path)
}

func (e *ScopeError) Unwrap() error {
	return ErrOutsideScope
}

// UserMessage is the text shown to the UI.
func (e *ScopeError) UserMessage() string {
	return "Path not allowed: " + e.Path
}

// DirScope returns a pattern matching dir and everything below it.
func DirScope(dir string) string {
	return escapeMeta(filepath.ToSlash(filepath.Clean(dir))) + "/**"
}

func escapeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Scopes is a set of doublestar patterns over slash-separated absolute paths.
type Scopes []string

// Validate rejects malformed patterns.
func (s Scopes) Validate() error {
	for _, pattern := range s {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid scope pattern %q", pattern)
		}
	}
	return nil
}

// Allows reports whether the cleaned absolute path matches a pattern.
func (s Scopes) Allows(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range s {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// resolve validates the named path argument and returns it cleaned.
func (s Scopes) resolve(args map[string]interface{}, name string) (string, error) {
	raw, err := commands.StringArg(args, name)
	if err != nil {
		return "", err
	}
	return s.check(name, raw)
}

func (s Scopes) check(name, raw string) (string, error) {
	if raw == "" {
		return "", &commands.InvalidArgumentError{Name: name, Reason: "required"}
	}
	if !filepath.IsAbs(raw) {
		return "", &commands.InvalidArgumentError{Name: name, Reason: "must be absolute"}
	}
	clean := filepath.Clean(raw)
	if !s.Allows(clean) {
		return "", &ScopeError{Path: clean}
	}
	return clean, nil
}
