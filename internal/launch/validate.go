// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package launch

import (
	"fmt"
	"strings"
)

// ValidationError collects every structural problem found in a description.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid launch description: " + strings.Join(e.Problems, "; ")
}

// Validate checks the structural invariants of a description:
//
//   - argument names are non-empty and declared once
//   - nodes name a package, an executable and a unique node name
//   - includes name a file
//   - every configuration referenced without a default is declared or set
//     earlier in the description
//
// Include conditions are exempt from the last rule: like `ros2 launch`, they
// may name a configuration that only an override provides. Finalize reports
// it as an UnsetConfigurationError when no override does.
func (d *Description) Validate() error {
	v := &validator{
		known: make(map[string]struct{}),
		nodes: make(map[string]struct{}),
		args:  make(map[string]struct{}),
	}
	_ = d.Walk(func(e Entity) error {
		v.visit(e)
		return nil
	})
	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

type validator struct {
	known    map[string]struct{}
	nodes    map[string]struct{}
	args     map[string]struct{}
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) visit(e Entity) {
	switch e := e.(type) {
	case *DeclareArgument:
		if e.Name == "" {
			v.addf("argument with empty name")
			return
		}
		if _, dup := v.args[e.Name]; dup {
			v.addf("argument '%s' declared more than once", e.Name)
		}
		v.args[e.Name] = struct{}{}
		v.known[e.Name] = struct{}{}

	case *SetConfiguration:
		if e.Name == "" {
			v.addf("configuration action with empty name")
			return
		}
		v.checkRefs("configuration '"+e.Name+"'", e.Value)
		v.known[e.Name] = struct{}{}

	case *Node:
		label := "node '" + e.Name + "'"
		if e.Name == "" {
			v.addf("node %s/%s has no name", e.Package, e.Executable)
		} else if _, dup := v.nodes[e.Name]; dup {
			v.addf("node name '%s' is not unique", e.Name)
		}
		v.nodes[e.Name] = struct{}{}
		if e.Package == "" || e.Executable == "" {
			v.addf("%s must name a package and an executable", label)
		}
		for _, p := range e.Parameters {
			if p.Name == "" {
				v.addf("%s has a parameter with empty name", label)
			}
			v.checkRefs(label+" parameter '"+p.Name+"'", p.Value)
		}
		for _, a := range e.Arguments {
			v.checkRefs(label+" arguments", a)
		}

	case *Include:
		if len(e.File) == 0 {
			v.addf("include with empty file")
		}
		label := "include '" + e.File.String() + "'"
		v.checkRefs(label, e.File)
		for _, a := range e.Arguments {
			v.checkRefs(label+" argument '"+a.Name+"'", a.Value)
		}
	}
}

func (v *validator) checkRefs(where string, s Substitution) {
	for _, p := range s {
		if p.Var == "" || p.HasDefault {
			continue
		}
		if _, ok := v.known[p.Var]; !ok {
			v.addf("%s references '%s' before it is declared", where, p.Var)
		}
	}
}
