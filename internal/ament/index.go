// Package ament locates installed ROS 2 packages through the ament resource
// index, the same lookup `get_package_share_directory` performs.
//
// A package is installed under a prefix when the marker file
// `<prefix>/share/ament_index/resource_index/packages/<name>` exists; its share
// directory is then `<prefix>/share/<name>`. Prefixes are searched in the
// order they appear in AMENT_PREFIX_PATH and the first hit wins.
package ament

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/specialistvlad/bringup/internal/ctxlog"
)

const markerDir = "share/ament_index/resource_index/packages"

// Locator resolves a package name to its installed share directory.
type Locator interface {
	ShareDirectory(ctx context.Context, pkg string) (string, error)
}

// PackageNotFoundError is returned when no prefix provides the package.
type PackageNotFoundError struct {
	Package  string
	Prefixes []string
}

func (e *PackageNotFoundError) Error() string {
	if len(e.Prefixes) == 0 {
		return fmt.Sprintf("package '%s' not found: no ament prefixes configured (is AMENT_PREFIX_PATH set?)", e.Package)
	}
	return fmt.Sprintf("package '%s' not found, searching: [%s]", e.Package, strings.Join(e.Prefixes, ", "))
}

// indexEnv holds the raw environment the index is built from.
type indexEnv struct {
	Prefixes []string `env:"AMENT_PREFIX_PATH" envSeparator:":"`
}

// Index is a read-only view of the ament resource index across prefixes.
type Index struct {
	prefixes []string
}

// NewIndex builds an index over the given install prefixes. Empty entries
// are dropped, order is preserved.
func NewIndex(prefixes ...string) *Index {
	clean := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	return &Index{prefixes: clean}
}

// FromEnv builds an index from AMENT_PREFIX_PATH.
func FromEnv() (*Index, error) {
	return fromEnvironment(nil)
}

// fromEnvironment parses the given environment, or the process environment
// when environ is nil.
func fromEnvironment(environ map[string]string) (*Index, error) {
	var raw indexEnv
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return nil, fmt.Errorf("parse ament environment: %w", err)
	}
	return NewIndex(raw.Prefixes...), nil
}

// Prefixes returns a copy of the searched prefixes in lookup order.
func (i *Index) Prefixes() []string {
	return append([]string(nil), i.prefixes...)
}

// ShareDirectory returns `<prefix>/share/<pkg>` for the first prefix whose
// resource index registers pkg.
func (i *Index) ShareDirectory(ctx context.Context, pkg string) (string, error) {
	logger := ctxlog.Component(ctx, "ament")
	if strings.TrimSpace(pkg) == "" {
		return "", errors.New("package name must not be empty")
	}

	for _, prefix := range i.prefixes {
		marker := filepath.Join(prefix, markerDir, pkg)
		info, err := os.Stat(marker)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("check resource index for '%s' in %s: %w", pkg, prefix, err)
		}
		if info.IsDir() {
			continue
		}
		share := filepath.Join(prefix, "share", pkg)
		logger.Debug("Package located.", "package", pkg, "prefix", prefix, "share", share)
		return share, nil
	}

	return "", &PackageNotFoundError{Package: pkg, Prefixes: i.Prefixes()}
}
