// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package launch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ParamType is the declared type of a node parameter.
type ParamType int

const (
	ParamString ParamType = iota
	ParamBool
	ParamDouble
)

func (t ParamType) String() string {
	switch t {
	case ParamBool:
		return "bool"
	case ParamDouble:
		return "double"
	default:
		return "string"
	}
}

func (t ParamType) ctyType() cty.Type {
	switch t {
	case ParamBool:
		return cty.Bool
	case ParamDouble:
		return cty.Number
	default:
		return cty.String
	}
}

// Parameter is one typed node parameter. Its value stays a substitution
// until the description is finalized.
type Parameter struct {
	Name  string
	Type  ParamType
	Value Substitution
}

// StringParam declares a string parameter.
func StringParam(name string, value Substitution) Parameter {
	return Parameter{Name: name, Type: ParamString, Value: value}
}

// BoolParam declares a boolean parameter.
func BoolParam(name string, value Substitution) Parameter {
	return Parameter{Name: name, Type: ParamBool, Value: value}
}

// DoubleParam declares a fixed floating point parameter.
func DoubleParam(name string, value float64) Parameter {
	return Parameter{Name: name, Type: ParamDouble, Value: Text(strconv.FormatFloat(value, 'f', -1, 64))}
}

// Typed resolves the parameter and converts it to its declared type.
func (p Parameter) Typed(c *Context) (cty.Value, error) {
	raw, err := p.Value.Resolve(c)
	if err != nil {
		return cty.NilVal, fmt.Errorf("parameter '%s': %w", p.Name, err)
	}
	v, err := convertString(raw, p.Type.ctyType())
	if err != nil {
		return cty.NilVal, fmt.Errorf("parameter '%s' expects %s: %w", p.Name, p.Type, err)
	}
	return v, nil
}

// Native returns the Go value of a literal parameter: bool, float64 or
// string depending on its type.
func (p Parameter) Native() (any, error) {
	if !p.Value.IsLiteral() {
		return nil, fmt.Errorf("parameter '%s' is not finalized", p.Name)
	}
	v, err := p.Typed(NewContext(nil))
	if err != nil {
		return nil, err
	}
	switch p.Type {
	case ParamBool:
		var b bool
		err = gocty.FromCtyValue(v, &b)
		return b, err
	case ParamDouble:
		var f float64
		err = gocty.FromCtyValue(v, &f)
		return f, err
	default:
		var s string
		err = gocty.FromCtyValue(v, &s)
		return s, err
	}
}

// convertString converts a raw launch value to want. Boolean spellings
// accepted by the launch runtime ("True", "1", "0") are normalised first.
func convertString(raw string, want cty.Type) (cty.Value, error) {
	if want == cty.Bool {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1":
			raw = "true"
		case "false", "0":
			raw = "false"
		}
	}
	if want == cty.Number {
		raw = strings.TrimSpace(raw)
	}
	return convert.Convert(cty.StringVal(raw), want)
}

// evaluateCondition resolves an include condition to a boolean.
func evaluateCondition(cond Substitution, c *Context) (bool, error) {
	raw, err := cond.Resolve(c)
	if err != nil {
		return false, err
	}
	v, err := convertString(raw, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("condition '%s' is not a boolean: %w", raw, err)
	}
	return v.True(), nil
}
