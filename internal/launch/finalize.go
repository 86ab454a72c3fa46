// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements the finalize phase. It walks a draft description in
// declaration order, exactly as the launch runtime would visit it, and binds
// every substitution to the configurations known at that point.
package launch

import (
	"context"
	"fmt"

	"github.com/specialistvlad/bringup/internal/ctxlog"
)

// Finalized is the outcome of Finalize.
type Finalized struct {
	// Description has the same shape as the draft, with every substitution
	// replaced by literal text and false-conditioned includes removed.
	Description *Description
	// Configurations holds the top-level configuration values after the
	// last entity was visited.
	Configurations map[string]string
}

// Finalize resolves a draft against overrides. Overrides are bound before
// any entity is visited, so a declared argument only falls back to its
// default when no override names it. The draft is not modified.
func Finalize(ctx context.Context, draft *Description, overrides map[string]string) (*Finalized, error) {
	logger := ctxlog.Component(ctx, "launch")
	logger.Debug("Finalizing launch description.", "entities", len(draft.Entities), "overrides", len(overrides))

	lc := NewContext(overrides)
	entities, err := finalizeEntities(ctx, draft.Entities, lc)
	if err != nil {
		return nil, err
	}

	logger.Debug("Launch description finalized.", "entities", len(entities))
	return &Finalized{
		Description:    New(entities...),
		Configurations: lc.Snapshot(),
	}, nil
}

func finalizeEntities(ctx context.Context, entities []Entity, lc *Context) ([]Entity, error) {
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		fe, keep, err := finalizeEntity(ctx, e, lc)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, fe)
		}
	}
	return out, nil
}

func finalizeEntity(ctx context.Context, e Entity, lc *Context) (Entity, bool, error) {
	switch e := e.(type) {
	case *DeclareArgument:
		if _, ok := lc.Get(e.Name); !ok {
			lc.Set(e.Name, e.Default)
		}
		arg := *e
		return &arg, true, nil

	case *SetConfiguration:
		value, err := e.Value.Resolve(lc)
		if err != nil {
			return nil, false, fmt.Errorf("set configuration '%s': %w", e.Name, err)
		}
		lc.Set(e.Name, value)
		return &SetConfiguration{Name: e.Name, Value: Text(value)}, true, nil

	case *Node:
		n, err := finalizeNode(e, lc)
		if err != nil {
			return nil, false, fmt.Errorf("node '%s': %w", e.Name, err)
		}
		return n, true, nil

	case *Include:
		return finalizeInclude(ctx, e, lc)

	case *Group:
		scope := lc
		if e.Scoped {
			scope = lc.scope()
		}
		children, err := finalizeEntities(ctx, e.Children, scope)
		if err != nil {
			return nil, false, err
		}
		return &Group{Scoped: e.Scoped, Children: children}, true, nil

	default:
		return nil, false, fmt.Errorf("unsupported launch entity %T", e)
	}
}

func finalizeNode(n *Node, lc *Context) (*Node, error) {
	out := &Node{
		Package:    n.Package,
		Executable: n.Executable,
		Name:       n.Name,
		Output:     n.Output,
		Remappings: append([]Remapping(nil), n.Remappings...),
	}
	for _, p := range n.Parameters {
		raw, err := p.Value.Resolve(lc)
		if err != nil {
			return nil, fmt.Errorf("parameter '%s': %w", p.Name, err)
		}
		lp := Parameter{Name: p.Name, Type: p.Type, Value: Text(raw)}
		// Reject values the node could not accept before handing them over.
		if _, err := lp.Typed(lc); err != nil {
			return nil, err
		}
		out.Parameters = append(out.Parameters, lp)
	}
	for _, a := range n.Arguments {
		raw, err := a.Resolve(lc)
		if err != nil {
			return nil, fmt.Errorf("arguments: %w", err)
		}
		out.Arguments = append(out.Arguments, Text(raw))
	}
	return out, nil
}

func finalizeInclude(ctx context.Context, inc *Include, lc *Context) (Entity, bool, error) {
	file, err := inc.File.Resolve(lc)
	if err != nil {
		return nil, false, fmt.Errorf("include file: %w", err)
	}
	if len(inc.Condition) > 0 {
		ok, err := evaluateCondition(inc.Condition, lc)
		if err != nil {
			return nil, false, fmt.Errorf("include '%s': %w", file, err)
		}
		if !ok {
			ctxlog.Component(ctx, "launch").Debug("Include skipped by condition.", "file", file, "condition", inc.Condition.String())
			return nil, false, nil
		}
	}

	out := &Include{File: Text(file)}
	for _, a := range inc.Arguments {
		raw, err := a.Value.Resolve(lc)
		if err != nil {
			return nil, false, fmt.Errorf("include '%s' argument '%s': %w", file, a.Name, err)
		}
		out.Arguments = append(out.Arguments, IncludeArgument{Name: a.Name, Value: Text(raw)})
	}
	return out, true, nil
}
