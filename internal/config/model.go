package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the complete input of one composition besides the argument
// overrides supplied at launch time.
type Config struct {
	Packages     Packages
	World        World
	UseSimTime   bool
	Resolution   float64
	ScanRemap    Remap
	Cartographer Cartographer
	Rviz         Rviz
	Navigation   []NavigationInclude
}

// Packages names the three installed packages the session depends on.
type Packages struct {
	Simulator  string
	Mapping    string
	Navigation string
}

// World configures the `world` launch argument and how it maps to a file
// inside the simulator's share directory.
type World struct {
	Default     string
	Description string
	Directory   string
	Extension   string
}

// Remap is a static topic remapping.
type Remap struct {
	From string
	To   string
}

// Cartographer holds the SLAM node's configuration location. Directory is
// relative to the simulator's share directory.
type Cartographer struct {
	Directory string
	Basename  string
}

// Rviz holds the visualizer configuration file, relative to the mapping
// package's share directory.
type Rviz struct {
	Config string
}

// NavigationInclude is one inclusion of a navigation launch file. LaunchFile
// is relative to the navigation package's share directory. Condition is an
// optional launch expression such as `$(var use_amcl)`.
type NavigationInclude struct {
	Name       string
	LaunchFile string
	Condition  string
}

// Default returns the stage + cartographer + nav2 session.
func Default() Config {
	return Config{
		Packages: Packages{
			Simulator:  "stage_ros2",
			Mapping:    "cartographer_ros",
			Navigation: "nav2_bringup",
		},
		World: World{
			Default:     "my_house",
			Description: "World file relative to the project world file, without .world",
			Directory:   "world",
			Extension:   ".world",
		},
		UseSimTime: true,
		Resolution: 0.05,
		ScanRemap:  Remap{From: "/base_scan", To: "/scan"},
		Cartographer: Cartographer{
			Directory: "config/cartographer",
			Basename:  "stage_2d.lua",
		},
		Rviz: Rviz{Config: "configuration_files/demo_2d.rviz"},
		// Both entries point at the same file with the same arguments. The
		// upstream session declares them this way; see Description.Duplicates.
		Navigation: []NavigationInclude{
			{Name: "including_map_server", LaunchFile: "launch/nav2_navigation_only.launch.py"},
			{Name: "navigation_only", LaunchFile: "launch/nav2_navigation_only.launch.py"},
		},
	}
}

// Validate reports every missing or inconsistent field.
func (c Config) Validate() error {
	var errs []error
	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", field))
		}
	}

	require("packages.simulator", c.Packages.Simulator)
	require("packages.mapping", c.Packages.Mapping)
	require("packages.navigation", c.Packages.Navigation)
	require("world.default", c.World.Default)
	require("world.directory", c.World.Directory)
	require("cartographer.directory", c.Cartographer.Directory)
	require("cartographer.basename", c.Cartographer.Basename)
	require("rviz.config", c.Rviz.Config)
	require("scan_remap.from", c.ScanRemap.From)
	require("scan_remap.to", c.ScanRemap.To)

	if c.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %g", c.Resolution))
	}

	seen := make(map[string]struct{}, len(c.Navigation))
	for i, nav := range c.Navigation {
		require(fmt.Sprintf("navigation[%d].name", i), nav.Name)
		require(fmt.Sprintf("navigation[%d].launch_file", i), nav.LaunchFile)
		if _, dup := seen[nav.Name]; dup {
			errs = append(errs, fmt.Errorf("navigation include '%s' defined more than once", nav.Name))
		}
		seen[nav.Name] = struct{}{}
	}

	return errors.Join(errs...)
}
