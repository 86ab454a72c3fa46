// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package launch

import "reflect"

// Description is the ordered list of entities of one launch session.
type Description struct {
	Entities []Entity
}

// New returns a description holding entities in the given order.
func New(entities ...Entity) *Description {
	return &Description{Entities: entities}
}

// Add appends entities.
func (d *Description) Add(entities ...Entity) {
	d.Entities = append(d.Entities, entities...)
}

// Walk visits every entity depth-first in declaration order, descending
// into groups after visiting the group itself.
func (d *Description) Walk(fn func(Entity) error) error {
	return walk(d.Entities, fn)
}

func walk(entities []Entity, fn func(Entity) error) error {
	for _, e := range entities {
		if err := fn(e); err != nil {
			return err
		}
		if g, ok := e.(*Group); ok {
			if err := walk(g.Children, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Arguments returns every declared argument.
func (d *Description) Arguments() []*DeclareArgument {
	var out []*DeclareArgument
	_ = d.Walk(func(e Entity) error {
		if a, ok := e.(*DeclareArgument); ok {
			out = append(out, a)
		}
		return nil
	})
	return out
}

// Nodes returns every node, including those nested in groups.
func (d *Description) Nodes() []*Node {
	var out []*Node
	_ = d.Walk(func(e Entity) error {
		if n, ok := e.(*Node); ok {
			out = append(out, n)
		}
		return nil
	})
	return out
}

// Includes returns every included launch file, including nested ones.
func (d *Description) Includes() []*Include {
	var out []*Include
	_ = d.Walk(func(e Entity) error {
		if i, ok := e.(*Include); ok {
			out = append(out, i)
		}
		return nil
	})
	return out
}

// Groups returns the top-level groups.
func (d *Description) Groups() []*Group {
	var out []*Group
	for _, e := range d.Entities {
		if g, ok := e.(*Group); ok {
			out = append(out, g)
		}
	}
	return out
}

// Node returns the node with the given name.
func (d *Description) Node(name string) (*Node, bool) {
	for _, n := range d.Nodes() {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Duplicate reports two structurally identical includes within one group.
type Duplicate struct {
	Group  int // index among top-level groups
	First  int // child index of the first include
	Second int // child index of its duplicate
	File   string
}

// Duplicates finds includes that appear more than once, with the same
// file, arguments and condition, inside the same top-level group.
func (d *Description) Duplicates() []Duplicate {
	var out []Duplicate
	for gi, g := range d.Groups() {
		for i := 0; i < len(g.Children); i++ {
			a, ok := g.Children[i].(*Include)
			if !ok {
				continue
			}
			for j := i + 1; j < len(g.Children); j++ {
				b, ok := g.Children[j].(*Include)
				if ok && reflect.DeepEqual(a, b) {
					out = append(out, Duplicate{Group: gi, First: i, Second: j, File: a.File.String()})
				}
			}
		}
	}
	return out
}
