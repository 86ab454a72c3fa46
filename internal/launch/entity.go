// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the entities a Description is made of. Each mirrors one
// action of the ROS 2 launch system and keeps its values as Substitutions so
// that evaluation can be deferred until Finalize.
package launch

// Kind identifies the concrete type of an Entity.
type Kind int

const (
	KindArgument Kind = iota
	KindSetConfiguration
	KindNode
	KindInclude
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "arg"
	case KindSetConfiguration:
		return "let"
	case KindNode:
		return "node"
	case KindInclude:
		return "include"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Entity is one element of a Description.
type Entity interface {
	Kind() Kind
}

// DeclareArgument declares a user-overridable launch argument.
type DeclareArgument struct {
	Name        string
	Default     string
	Description string
}

func (*DeclareArgument) Kind() Kind { return KindArgument }

// SetConfiguration assigns a launch configuration from a substitution. It is
// how derived values, such as a path built from an argument, are declared.
type SetConfiguration struct {
	Name  string
	Value Substitution
}

func (*SetConfiguration) Kind() Kind { return KindSetConfiguration }

// Remapping renames a topic for one node.
type Remapping struct {
	From string
	To   string
}

// Node declares one process to start.
type Node struct {
	Package    string
	Executable string
	Name       string
	// Output routing, "screen" or "log". Empty leaves the runtime default.
	Output     string
	Parameters []Parameter
	Remappings []Remapping
	Arguments  []Substitution
}

func (*Node) Kind() Kind { return KindNode }

// Parameter looks up a parameter by name.
func (n *Node) Parameter(name string) (Parameter, bool) {
	for _, p := range n.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// IncludeArgument is one argument override passed to an included file.
type IncludeArgument struct {
	Name  string
	Value Substitution
}

// Include references another launch file. Its content is opaque here.
type Include struct {
	File      Substitution
	Arguments []IncludeArgument
	// Condition, when set, must evaluate to a boolean; false drops the
	// include during Finalize.
	Condition Substitution
}

func (*Include) Kind() Kind { return KindInclude }

// Argument looks up an argument override by name.
func (i *Include) Argument(name string) (IncludeArgument, bool) {
	for _, a := range i.Arguments {
		if a.Name == name {
			return a, true
		}
	}
	return IncludeArgument{}, false
}

// Group activates its children together. Configuration changes made inside
// a scoped group are not visible after it.
type Group struct {
	Scoped   bool
	Children []Entity
}

func (*Group) Kind() Kind { return KindGroup }
