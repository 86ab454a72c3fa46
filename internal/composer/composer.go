// Package composer builds the bring-up session: the stage simulator,
// cartographer SLAM with its occupancy grid publisher, rviz2, and the nav2
// navigation includes.
//
// Composition is split in two phases. Compose locates the installed packages
// and returns a draft launch.Description whose values still reference launch
// configurations; Finalize binds argument overrides and resolves derived
// paths such as the world file.
package composer

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specialistvlad/bringup/internal/ament"
	"github.com/specialistvlad/bringup/internal/config"
	"github.com/specialistvlad/bringup/internal/ctxlog"
	"github.com/specialistvlad/bringup/internal/launch"
)

// Launch argument and configuration names.
const (
	ArgWorld         = "world"
	ConfigWorldFile  = "world_file"
	ConfigUseSimTime = "use_sim_time"
)

const (
	outputScreen       = "screen"
	cartographerNodeEx = "cartographer_node"
	occupancyGridEx    = "cartographer_occupancy_grid_node"
)

// Node names. They are unique within one session.
const (
	NodeStage         = "stage"
	NodeCartographer  = "cartographer_node"
	NodeOccupancyGrid = "cartographer_occupancy_grid_node"
	NodeRviz          = "rviz2"
)

// Composer produces the session description from a configuration.
type Composer struct {
	locator ament.Locator
	cfg     config.Config
}

// New returns a Composer that resolves packages through locator.
func New(locator ament.Locator, cfg config.Config) *Composer {
	return &Composer{locator: locator, cfg: cfg}
}

// shares holds the resolved package share directories.
type shares struct {
	simulator  string
	mapping    string
	navigation string
}

func (c *Composer) locate(ctx context.Context) (shares, error) {
	var s shares
	for _, target := range []struct {
		pkg string
		dst *string
	}{
		{c.cfg.Packages.Simulator, &s.simulator},
		{c.cfg.Packages.Mapping, &s.mapping},
		{c.cfg.Packages.Navigation, &s.navigation},
	} {
		dir, err := c.locator.ShareDirectory(ctx, target.pkg)
		if err != nil {
			return shares{}, fmt.Errorf("failed to locate package share directory: %w", err)
		}
		*target.dst = dir
	}
	return s, nil
}

// Compose is the declaration phase. The returned draft holds, in order: the
// world argument, the world_file configuration, the four nodes and the
// navigation group. It fails only when a package cannot be located.
func (c *Composer) Compose(ctx context.Context) (*launch.Description, error) {
	logger := ctxlog.Component(ctx, "composer")
	logger.Debug("Composing launch description.")

	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid composer configuration: %w", err)
	}

	dirs, err := c.locate(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Package share directories resolved.",
		"simulator", dirs.simulator, "mapping", dirs.mapping, "navigation", dirs.navigation)

	useSimTime := launch.VarDefault(ConfigUseSimTime, strconv.FormatBool(c.cfg.UseSimTime))

	worldArg := &launch.DeclareArgument{
		Name:        ArgWorld,
		Default:     c.cfg.World.Default,
		Description: c.cfg.World.Description,
	}
	worldFile := &launch.SetConfiguration{
		Name: ConfigWorldFile,
		Value: launch.Join(
			launch.Text(filepath.Join(dirs.simulator, c.cfg.World.Directory)+string(filepath.Separator)),
			launch.Var(ArgWorld),
			launch.Text(c.cfg.World.Extension),
		),
	}

	stage := &launch.Node{
		Package:    c.cfg.Packages.Simulator,
		Executable: "stage_ros2",
		Name:       NodeStage,
		Parameters: StageParams{WorldFile: launch.Var(ConfigWorldFile), UseSimTime: useSimTime}.parameters(),
		Remappings: []launch.Remapping{{From: c.cfg.ScanRemap.From, To: c.cfg.ScanRemap.To}},
	}

	cartographer := &launch.Node{
		Package:    c.cfg.Packages.Mapping,
		Executable: cartographerNodeEx,
		Name:       NodeCartographer,
		Output:     outputScreen,
		Parameters: CartographerParams{UseSimTime: useSimTime}.parameters(),
		Arguments: texts(
			"-configuration_directory", filepath.Join(dirs.simulator, c.cfg.Cartographer.Directory),
			"-configuration_basename", c.cfg.Cartographer.Basename,
		),
	}

	occupancy := &launch.Node{
		Package:    c.cfg.Packages.Mapping,
		Executable: occupancyGridEx,
		Name:       NodeOccupancyGrid,
		Output:     outputScreen,
		Parameters: OccupancyGridParams{UseSimTime: useSimTime, Resolution: c.cfg.Resolution}.parameters(),
	}

	rviz := &launch.Node{
		Package:    "rviz2",
		Executable: "rviz2",
		Name:       NodeRviz,
		Parameters: RvizParams{UseSimTime: useSimTime}.parameters(),
		Arguments:  texts("-d", filepath.Join(dirs.mapping, c.cfg.Rviz.Config)),
	}

	navigation, err := c.navigationGroup(dirs.navigation, useSimTime)
	if err != nil {
		return nil, err
	}

	desc := launch.New(worldArg, worldFile, stage, cartographer, occupancy, rviz, navigation)
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	for _, dup := range desc.Duplicates() {
		logger.Warn("Navigation group includes the same launch file twice with identical arguments; the intended difference between them needs clarification.",
			"file", dup.File, "first", c.cfg.Navigation[dup.First].Name, "second", c.cfg.Navigation[dup.Second].Name)
	}

	logger.Debug("Launch description composed.", "entities", len(desc.Entities), "nodes", len(desc.Nodes()))
	return desc, nil
}

func (c *Composer) navigationGroup(navShare string, useSimTime launch.Substitution) (*launch.Group, error) {
	group := &launch.Group{Scoped: true}
	for _, nav := range c.cfg.Navigation {
		inc := &launch.Include{
			File:      launch.Text(filepath.Join(navShare, nav.LaunchFile)),
			Arguments: []launch.IncludeArgument{{Name: ConfigUseSimTime, Value: useSimTime}},
		}
		if nav.Condition != "" {
			cond, err := launch.Parse(nav.Condition)
			if err != nil {
				return nil, fmt.Errorf("navigation include '%s' condition: %w", nav.Name, err)
			}
			inc.Condition = cond
		}
		group.Children = append(group.Children, inc)
	}
	return group, nil
}

// Finalize is the resolution phase: it binds overrides (e.g. world=office)
// and resolves world_file and every node and include value.
func (c *Composer) Finalize(ctx context.Context, draft *launch.Description, overrides map[string]string) (*launch.Finalized, error) {
	logger := ctxlog.Component(ctx, "composer")

	if world, ok := overrides[ArgWorld]; ok && suspiciousWorld(world) {
		// Accepted unchanged: the world name is joined into a path as given.
		logger.Warn("World name contains path elements and will escape the world directory.", "world", world)
	}

	fin, err := launch.Finalize(ctx, draft, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize launch description: %w", err)
	}

	logger.Info("Launch description finalized.",
		"world", fin.Configurations[ArgWorld], "world_file", fin.Configurations[ConfigWorldFile])
	return fin, nil
}

func suspiciousWorld(world string) bool {
	return strings.ContainsAny(world, `/\`) || strings.Contains(world, "..")
}

func texts(values ...string) []launch.Substitution {
	out := make([]launch.Substitution, len(values))
	for i, v := range values {
		out[i] = launch.Text(v)
	}
	return out
}
