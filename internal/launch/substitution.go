// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package launch

import (
	"fmt"
	"strings"
	"unicode"
)

// Part is one piece of a Substitution: either literal text or a reference
// to a launch configuration.
type Part struct {
	Text string

	// Var names the referenced configuration. Empty for literal text.
	Var        string
	Default    string
	HasDefault bool
}

// Substitution is an ordered concatenation of parts.
type Substitution []Part

// UnsetConfigurationError is returned when a substitution references a
// configuration that has no value and no default.
type UnsetConfigurationError struct {
	Name string
}

func (e *UnsetConfigurationError) Error() string {
	return fmt.Sprintf("launch configuration '%s' is not set and has no default", e.Name)
}

// Text returns a literal substitution.
func Text(s string) Substitution {
	return Substitution{{Text: s}}
}

// Var references the launch configuration name.
func Var(name string) Substitution {
	return Substitution{{Var: name}}
}

// VarDefault references name, falling back to def when it is unset.
func VarDefault(name, def string) Substitution {
	return Substitution{{Var: name, Default: def, HasDefault: true}}
}

// Join concatenates substitutions, merging adjacent literal text.
func Join(subs ...Substitution) Substitution {
	var out Substitution
	for _, s := range subs {
		for _, p := range s {
			if p.Var == "" {
				if p.Text == "" {
					continue
				}
				if n := len(out); n > 0 && out[n-1].Var == "" {
					out[n-1].Text += p.Text
					continue
				}
			}
			out = append(out, p)
		}
	}
	return out
}

// IsLiteral reports whether s references no configuration.
func (s Substitution) IsLiteral() bool {
	for _, p := range s {
		if p.Var != "" {
			return false
		}
	}
	return true
}

// References returns the configuration names s depends on, in order of
// first appearance.
func (s Substitution) References() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, p := range s {
		if p.Var == "" {
			continue
		}
		if _, ok := seen[p.Var]; ok {
			continue
		}
		seen[p.Var] = struct{}{}
		names = append(names, p.Var)
	}
	return names
}

// Resolve evaluates s against the configurations in c.
func (s Substitution) Resolve(c *Context) (string, error) {
	var b strings.Builder
	for _, p := range s {
		if p.Var == "" {
			b.WriteString(p.Text)
			continue
		}
		v, ok := c.Get(p.Var)
		if !ok {
			if !p.HasDefault {
				return "", &UnsetConfigurationError{Name: p.Var}
			}
			v = p.Default
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// String renders s in the launch frontend syntax, e.g.
// `/opt/share/world/$(var world).world`.
func (s Substitution) String() string {
	var b strings.Builder
	for _, p := range s {
		switch {
		case p.Var == "":
			b.WriteString(p.Text)
		case p.HasDefault:
			fmt.Fprintf(&b, "$(var %s %s)", p.Var, quoteDefault(p.Default))
		default:
			fmt.Fprintf(&b, "$(var %s)", p.Var)
		}
	}
	return b.String()
}

func quoteDefault(s string) string {
	switch {
	case strings.Contains(s, "'"):
		return `"` + s + `"`
	case s == "" || strings.ContainsAny(s, " \t)\""):
		return "'" + s + "'"
	}
	return s
}

// Parse reads the frontend syntax produced by String. Only the `var`
// substitution is understood; anything else is an error. Defaults may be
// wrapped in single or double quotes.
func Parse(s string) (Substitution, error) {
	var out Substitution
	for {
		start := strings.Index(s, "$(")
		if start < 0 {
			return Join(out, Text(s)), nil
		}
		end := closingParen(s[start+2:])
		if end < 0 {
			return nil, fmt.Errorf("unterminated substitution in '%s'", s)
		}
		part, err := parseVar(s[start+2 : start+2+end])
		if err != nil {
			return nil, err
		}
		out = Join(out, Text(s[:start]), Substitution{part})
		s = s[start+2+end+1:]
	}
}

// closingParen returns the index of the first ')' outside quotes, or -1.
func closingParen(s string) int {
	var quote rune
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ')':
			return i
		}
	}
	return -1
}

func parseVar(body string) (Part, error) {
	fields, err := splitFields(body)
	if err != nil {
		return Part{}, err
	}
	if len(fields) == 0 || fields[0] != "var" {
		return Part{}, fmt.Errorf("unsupported substitution '$(%s)'", body)
	}
	switch len(fields) {
	case 2:
		return Part{Var: fields[1]}, nil
	case 3:
		return Part{Var: fields[1], Default: fields[2], HasDefault: true}, nil
	default:
		return Part{}, fmt.Errorf("malformed substitution '$(%s)'", body)
	}
}

// splitFields splits on whitespace, keeping quoted runs together and
// stripping the quotes. A quoted empty string is kept as an empty field.
func splitFields(s string) ([]string, error) {
	var (
		fields []string
		b      strings.Builder
		quote  rune
		inside bool
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			b.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			inside = true
		case unicode.IsSpace(r):
			if inside {
				fields = append(fields, b.String())
				b.Reset()
				inside = false
			}
		default:
			b.WriteRune(r)
			inside = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in '$(%s)'", s)
	}
	if inside {
		fields = append(fields, b.String())
	}
	return fields, nil
}
