// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package launch

import "maps"

// Context holds the launch configurations visible while a description is
// being finalized.
type Context struct {
	configs map[string]string
}

// NewContext returns a context seeded with a copy of initial.
func NewContext(initial map[string]string) *Context {
	c := &Context{configs: make(map[string]string, len(initial))}
	maps.Copy(c.configs, initial)
	return c
}

// Get returns the value of a configuration.
func (c *Context) Get(name string) (string, bool) {
	v, ok := c.configs[name]
	return v, ok
}

// Set assigns a configuration.
func (c *Context) Set(name, value string) {
	c.configs[name] = value
}

// Snapshot returns a copy of all configurations.
func (c *Context) Snapshot() map[string]string {
	return maps.Clone(c.configs)
}

// scope returns a child context for a scoped group.
func (c *Context) scope() *Context {
	return NewContext(c.configs)
}
