// Package render converts a launch.Description into the ROS 2 launch
// frontend's YAML format, so `ros2 launch` can run it, or into the same
// document as JSON for tooling.
package render

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/bringup/internal/launch"
)

// Document is the root of a YAML launch file.
type Document struct {
	Launch []Item `yaml:"launch" json:"launch"`
}

// Item holds exactly one launch action.
type Item struct {
	Arg     *Arg     `yaml:"arg,omitempty" json:"arg,omitempty"`
	Let     *Let     `yaml:"let,omitempty" json:"let,omitempty"`
	Node    *Node    `yaml:"node,omitempty" json:"node,omitempty"`
	Include *Include `yaml:"include,omitempty" json:"include,omitempty"`
	Group   *Group   `yaml:"group,omitempty" json:"group,omitempty"`
}

type Arg struct {
	Name        string `yaml:"name" json:"name"`
	Default     string `yaml:"default" json:"default"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type Let struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

type Node struct {
	Pkg    string  `yaml:"pkg" json:"pkg"`
	Exec   string  `yaml:"exec" json:"exec"`
	Name   string  `yaml:"name" json:"name"`
	Output string  `yaml:"output,omitempty" json:"output,omitempty"`
	Args   string  `yaml:"args,omitempty" json:"args,omitempty"`
	Param  []Param `yaml:"param,omitempty" json:"param,omitempty"`
	Remap  []Remap `yaml:"remap,omitempty" json:"remap,omitempty"`
}

// Param is a node parameter or include argument. Value is a bool, float64
// or string once finalized; in a draft it is the substitution text.
type Param struct {
	Name  string `yaml:"name" json:"name"`
	Value any    `yaml:"value" json:"value"`
}

type Remap struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

type Include struct {
	File string  `yaml:"file" json:"file"`
	If   string  `yaml:"if,omitempty" json:"if,omitempty"`
	Arg  []Param `yaml:"arg,omitempty" json:"arg,omitempty"`
}

type Group struct {
	Scoped   bool   `yaml:"scoped" json:"scoped"`
	Children []Item `yaml:"children" json:"children"`
}

// Build converts a description, draft or finalized, into a Document.
func Build(d *launch.Description) (*Document, error) {
	items, err := buildItems(d.Entities)
	if err != nil {
		return nil, err
	}
	return &Document{Launch: items}, nil
}

func buildItems(entities []launch.Entity) ([]Item, error) {
	items := make([]Item, 0, len(entities))
	for _, e := range entities {
		item, err := buildItem(e)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func buildItem(e launch.Entity) (Item, error) {
	switch e := e.(type) {
	case *launch.DeclareArgument:
		return Item{Arg: &Arg{Name: e.Name, Default: e.Default, Description: e.Description}}, nil

	case *launch.SetConfiguration:
		return Item{Let: &Let{Name: e.Name, Value: e.Value.String()}}, nil

	case *launch.Node:
		n := &Node{
			Pkg:    e.Package,
			Exec:   e.Executable,
			Name:   e.Name,
			Output: e.Output,
			Args:   joinArgs(e.Arguments),
		}
		for _, p := range e.Parameters {
			v, err := paramValue(p)
			if err != nil {
				return Item{}, fmt.Errorf("node '%s': %w", e.Name, err)
			}
			n.Param = append(n.Param, Param{Name: p.Name, Value: v})
		}
		for _, r := range e.Remappings {
			n.Remap = append(n.Remap, Remap{From: r.From, To: r.To})
		}
		return Item{Node: n}, nil

	case *launch.Include:
		inc := &Include{File: e.File.String(), If: e.Condition.String()}
		for _, a := range e.Arguments {
			inc.Arg = append(inc.Arg, Param{Name: a.Name, Value: a.Value.String()})
		}
		return Item{Include: inc}, nil

	case *launch.Group:
		children, err := buildItems(e.Children)
		if err != nil {
			return Item{}, err
		}
		return Item{Group: &Group{Scoped: e.Scoped, Children: children}}, nil

	default:
		return Item{}, fmt.Errorf("cannot render launch entity %T", e)
	}
}

// paramValue returns the typed value of a literal parameter and the
// substitution text otherwise.
func paramValue(p launch.Parameter) (any, error) {
	if !p.Value.IsLiteral() {
		return p.Value.String(), nil
	}
	return p.Native()
}

// joinArgs flattens node arguments into the single string the frontend
// expects, quoting arguments that contain whitespace.
func joinArgs(args []launch.Substitution) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		s := a.String()
		if s == "" || strings.ContainsAny(s, " \t\n") {
			s = "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
