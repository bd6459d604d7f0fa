// Package updater checks GitHub releases for a newer build and replaces the
// running executable.
//
// Updates are disabled when no repository slug is configured or the running
// build is a development version.
package updater

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creativeprojects/go-selfupdate"
)

// ErrDisabled is returned by Check and Install on disabled updaters.
var ErrDisabled = errors.New("updates disabled")

// ErrNoRelease is returned when the repository has no matching release.
var ErrNoRelease = errors.New("no release found")

type engine interface {
	DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error)
	UpdateTo(ctx context.Context, rel *selfupdate.Release, cmdPath string) error
}

// Status describes the newest release relative to the running build.
type Status struct {
	Current     string    `json:"current"`
	Latest      string    `json:"latest"`
	Available   bool      `json:"available"`
	Notes       string    `json:"notes,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url,omitempty"`
}

// Updater checks one repository.
type Updater struct {
	slug    string
	current string
	engine  engine
	exe     func() (string, error)
}

// IsDevVersion reports builds that must never self-update.
func IsDevVersion(v string) bool {
	return v == "" || v == "dev"
}

// ValidateSlug checks an "owner/name" repository slug.
func ValidateSlug(slug string) error {
	owner, name, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid repository slug %q", slug)
	}
	return nil
}

// New creates an updater for slug. An empty slug or a development version
// yields a disabled updater.
func New(slug, currentVersion string) (*Updater, error) {
	u := &Updater{slug: slug, current: currentVersion, exe: selfupdate.ExecutablePath}
	if slug == "" || IsDevVersion(currentVersion) {
		return u, nil
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	eng, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}
	u.engine = eng
	return u, nil
}

// Enabled reports whether Check and Install can run.
func (u *Updater) Enabled() bool {
	return u.engine != nil
}

// Slug returns the configured repository.
func (u *Updater) Slug() string {
	return u.slug
}

func (u *Updater) latest(ctx context.Context) (*selfupdate.Release, error) {
	if !u.Enabled() {
		return nil, ErrDisabled
	}
	rel, found, err := u.engine.DetectLatest(ctx, selfupdate.ParseSlug(u.slug))
	if err != nil {
		return nil, fmt.Errorf("error detecting latest version: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w for %s", ErrNoRelease, u.slug)
	}
	return rel, nil
}

func (u *Updater) status(rel *selfupdate.Release) *Status {
	return &Status{
		Current:     u.current,
		Latest:      rel.Version(),
		Available:   rel.GreaterThan(u.current),
		Notes:       rel.ReleaseNotes,
		PublishedAt: rel.PublishedAt,
		URL:         rel.URL,
	}
}

// Check looks up the newest release.
func (u *Updater) Check(ctx context.Context) (*Status, error) {
	rel, err := u.latest(ctx)
	if err != nil {
		return nil, err
	}
	return u.status(rel), nil
}

// Install replaces the running executable with the newest release when it is
// newer. The new build takes effect after a restart.
func (u *Updater) Install(ctx context.Context) (*Status, error) {
	rel, err := u.latest(ctx)
	if err != nil {
		return nil, err
	}
	st := u.status(rel)
	if !st.Available {
		return st, nil
	}

	exe, err := u.exe()
	if err != nil {
		return nil, fmt.Errorf("could not locate executable path: %w", err)
	}
	if err := u.engine.UpdateTo(ctx, rel, exe); err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return st, nil
}
