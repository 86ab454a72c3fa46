package ament

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Static maps package names to share directories without touching the
// filesystem. It backs the CLI's `--share name=dir` overrides.
type Static map[string]string

// ShareDirectory implements Locator.
func (s Static) ShareDirectory(_ context.Context, pkg string) (string, error) {
	if dir, ok := s[pkg]; ok {
		return dir, nil
	}
	return "", &PackageNotFoundError{Package: pkg}
}

// ParseStatic parses `name=dir` pairs into a Static locator.
func ParseStatic(pairs []string) (Static, error) {
	s := make(Static, len(pairs))
	for _, pair := range pairs {
		name, dir, ok := strings.Cut(pair, "=")
		name, dir = strings.TrimSpace(name), strings.TrimSpace(dir)
		if !ok || name == "" || dir == "" {
			return nil, fmt.Errorf("invalid share override '%s': expected name=dir", pair)
		}
		s[name] = dir
	}
	return s, nil
}

// Layered tries each locator in order and returns the first hit. A package
// missing from every layer yields a PackageNotFoundError listing the
// prefixes of all layers that reported any.
func Layered(locators ...Locator) Locator {
	return layered(locators)
}

type layered []Locator

func (l layered) ShareDirectory(ctx context.Context, pkg string) (string, error) {
	var prefixes []string
	for _, loc := range l {
		dir, err := loc.ShareDirectory(ctx, pkg)
		if err == nil {
			return dir, nil
		}
		var notFound *PackageNotFoundError
		if !errors.As(err, &notFound) {
			return "", err
		}
		prefixes = append(prefixes, notFound.Prefixes...)
	}
	return "", &PackageNotFoundError{Package: pkg, Prefixes: prefixes}
}
