package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "my_house", cfg.World.Default)
	require.True(t, cfg.UseSimTime)
	require.Equal(t, 0.05, cfg.Resolution)
	require.Len(t, cfg.Navigation, 2)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Overlay(t *testing.T) {
	t.Parallel()

	src := `
use_sim_time = false
resolution   = 0.1

packages {
  simulator = "stage_ros2_fork"
}

world {
  default = "office"
}

cartographer {
  basename = "stage_3d.lua"
}

navigation "amcl" {
  launch_file = "launch/localization_launch.py"
  condition   = "$(var use_amcl)"
}
`
	cfg, err := Parse(context.Background(), []byte(src), "session.hcl")
	require.NoError(t, err)

	want := Default()
	want.UseSimTime = false
	want.Resolution = 0.1
	want.Packages.Simulator = "stage_ros2_fork"
	want.World.Default = "office"
	want.Cartographer.Basename = "stage_3d.lua"
	want.Navigation = []NavigationInclude{
		{Name: "amcl", LaunchFile: "launch/localization_launch.py", Condition: "$(var use_amcl)"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("overlay mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EnvVariables(t *testing.T) {
	t.Setenv("BRINGUP_TEST_WORLD", "warehouse")

	cfg, err := Parse(context.Background(), []byte(`world { default = env.BRINGUP_TEST_WORLD }`), "env.hcl")
	require.NoError(t, err)
	require.Equal(t, "warehouse", cfg.World.Default)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
		want string
	}{
		{name: "syntax", src: `world {`, want: "failed to parse HCL file"},
		{name: "unknown attribute", src: `speed = 3`, want: "failed to decode HCL file"},
		{name: "wrong type", src: `use_sim_time = "sometimes"`, want: "failed to decode HCL file"},
		{name: "missing required", src: `navigation "x" {}`, want: "failed to decode HCL file"},
		{name: "invalid value", src: `resolution = 0`, want: "resolution must be positive"},
		{name: "duplicate navigation", src: `
navigation "a" { launch_file = "x.py" }
navigation "a" { launch_file = "y.py" }
`, want: "defined more than once"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(context.Background(), []byte(tc.src), "bad.hcl")
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`rviz { config = "configuration_files/demo_3d.rviz" }`), 0o644))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "configuration_files/demo_3d.rviz", cfg.Rviz.Config)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	require.ErrorContains(t, err, "failed to read configuration file")
}
