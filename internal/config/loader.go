package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/bringup/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot mirrors the accepted top-level attributes and blocks. Every field
// is optional; anything absent keeps its default.
type fileRoot struct {
	UseSimTime   *bool            `hcl:"use_sim_time,optional"`
	Resolution   *float64         `hcl:"resolution,optional"`
	Packages     *packagesBlock   `hcl:"packages,block"`
	World        *worldBlock      `hcl:"world,block"`
	ScanRemap    *remapBlock      `hcl:"scan_remap,block"`
	Cartographer *cartographerBlk `hcl:"cartographer,block"`
	Rviz         *rvizBlock       `hcl:"rviz,block"`
	Navigation   []*navBlock      `hcl:"navigation,block"`
}

type packagesBlock struct {
	Simulator  *string `hcl:"simulator,optional"`
	Mapping    *string `hcl:"mapping,optional"`
	Navigation *string `hcl:"navigation,optional"`
}

type worldBlock struct {
	Default     *string `hcl:"default,optional"`
	Description *string `hcl:"description,optional"`
	Directory   *string `hcl:"directory,optional"`
	Extension   *string `hcl:"extension,optional"`
}

type remapBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

type cartographerBlk struct {
	Directory *string `hcl:"directory,optional"`
	Basename  *string `hcl:"basename,optional"`
}

type rvizBlock struct {
	Config string `hcl:"config"`
}

type navBlock struct {
	Name       string  `hcl:"name,label"`
	LaunchFile string  `hcl:"launch_file"`
	Condition  *string `hcl:"condition,optional"`
}

// Load reads the HCL file at path and overlays it on Default. An empty path
// returns the defaults unchanged.
func Load(ctx context.Context, path string) (Config, error) {
	logger := ctxlog.Component(ctx, "config")
	if path == "" {
		logger.Debug("No configuration file given, using defaults.")
		return Default(), nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	return Parse(ctx, src, path)
}

// Parse overlays HCL source on Default. filename is only used in
// diagnostics.
func Parse(ctx context.Context, src []byte, filename string) (Config, error) {
	logger := ctxlog.Component(ctx, "config")

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cfg := Default()
	root.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration in %s: %w", filename, err)
	}

	logger.Debug("Configuration loaded.", "file", filename, "navigation_includes", len(cfg.Navigation))
	return cfg, nil
}

// evalContext exposes the process environment as `env.NAME` so files can
// pick values from the shell, e.g. `default = env.STAGE_WORLD`.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !hclIdentifier(name) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vars)},
	}
}

// hclIdentifier reports whether name can be used as an attribute in a
// traversal such as env.NAME.
func hclIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func (r *fileRoot) apply(cfg *Config) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	if r.UseSimTime != nil {
		cfg.UseSimTime = *r.UseSimTime
	}
	if r.Resolution != nil {
		cfg.Resolution = *r.Resolution
	}
	if p := r.Packages; p != nil {
		set(&cfg.Packages.Simulator, p.Simulator)
		set(&cfg.Packages.Mapping, p.Mapping)
		set(&cfg.Packages.Navigation, p.Navigation)
	}
	if w := r.World; w != nil {
		set(&cfg.World.Default, w.Default)
		set(&cfg.World.Description, w.Description)
		set(&cfg.World.Directory, w.Directory)
		set(&cfg.World.Extension, w.Extension)
	}
	if s := r.ScanRemap; s != nil {
		cfg.ScanRemap = Remap{From: s.From, To: s.To}
	}
	if c := r.Cartographer; c != nil {
		set(&cfg.Cartographer.Directory, c.Directory)
		set(&cfg.Cartographer.Basename, c.Basename)
	}
	if r.Rviz != nil {
		cfg.Rviz.Config = r.Rviz.Config
	}
	// Navigation blocks replace the defaults as a whole so that the file
	// decides exactly which includes the group holds.
	if len(r.Navigation) > 0 {
		cfg.Navigation = make([]NavigationInclude, 0, len(r.Navigation))
		for _, n := range r.Navigation {
			nav := NavigationInclude{Name: n.Name, LaunchFile: n.LaunchFile}
			set(&nav.Condition, n.Condition)
			cfg.Navigation = append(cfg.Navigation, nav)
		}
	}
}
