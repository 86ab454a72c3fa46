package composer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/bringup/internal/ament"
	"github.com/specialistvlad/bringup/internal/config"
	"github.com/specialistvlad/bringup/internal/ctxlog"
	"github.com/specialistvlad/bringup/internal/launch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testShares = ament.Static{
	"stage_ros2":       "/opt/ros/share/stage_ros2",
	"cartographer_ros": "/opt/ros/share/cartographer_ros",
	"nav2_bringup":     "/opt/ros/share/nav2_bringup",
}

// composeAndFinalize runs both phases with the default configuration.
func composeAndFinalize(t *testing.T, overrides map[string]string) (*launch.Description, *launch.Finalized) {
	t.Helper()
	ctx := context.Background()
	c := New(testShares, config.Default())

	draft, err := c.Compose(ctx)
	require.NoError(t, err)
	fin, err := c.Finalize(ctx, draft, overrides)
	require.NoError(t, err)
	return draft, fin
}

func TestCompose_Structure(t *testing.T) {
	t.Parallel()

	draft, _ := composeAndFinalize(t, nil)

	var kinds []launch.Kind
	for _, e := range draft.Entities {
		kinds = append(kinds, e.Kind())
	}
	require.Equal(t, []launch.Kind{
		launch.KindArgument,
		launch.KindSetConfiguration,
		launch.KindNode, launch.KindNode, launch.KindNode, launch.KindNode,
		launch.KindGroup,
	}, kinds)

	var names []string
	for _, n := range draft.Nodes() {
		names = append(names, n.Name)
	}
	require.Equal(t, []string{NodeStage, NodeCartographer, NodeOccupancyGrid, NodeRviz}, names)

	require.Len(t, draft.Groups(), 1)
	require.Len(t, draft.Groups()[0].Children, 2)

	arg := draft.Arguments()[0]
	require.Equal(t, "world", arg.Name)
	require.Equal(t, "my_house", arg.Default)
}

func TestCompose_NodeDeclarations(t *testing.T) {
	t.Parallel()

	draft, _ := composeAndFinalize(t, nil)
	simTime := launch.VarDefault("use_sim_time", "true")

	want := []*launch.Node{
		{
			Package:    "stage_ros2",
			Executable: "stage_ros2",
			Name:       "stage",
			Parameters: []launch.Parameter{
				launch.StringParam("world_file", launch.Var("world_file")),
				launch.BoolParam("use_sim_time", simTime),
			},
			Remappings: []launch.Remapping{{From: "/base_scan", To: "/scan"}},
		},
		{
			Package:    "cartographer_ros",
			Executable: "cartographer_node",
			Name:       "cartographer_node",
			Output:     "screen",
			Parameters: []launch.Parameter{launch.BoolParam("use_sim_time", simTime)},
			Arguments: []launch.Substitution{
				launch.Text("-configuration_directory"),
				launch.Text(filepath.Join("/opt/ros/share/stage_ros2", "config", "cartographer")),
				launch.Text("-configuration_basename"),
				launch.Text("stage_2d.lua"),
			},
		},
		{
			Package:    "cartographer_ros",
			Executable: "cartographer_occupancy_grid_node",
			Name:       "cartographer_occupancy_grid_node",
			Output:     "screen",
			Parameters: []launch.Parameter{
				launch.BoolParam("use_sim_time", simTime),
				launch.DoubleParam("resolution", 0.05),
			},
		},
		{
			Package:    "rviz2",
			Executable: "rviz2",
			Name:       "rviz2",
			Parameters: []launch.Parameter{launch.BoolParam("use_sim_time", simTime)},
			Arguments: []launch.Substitution{
				launch.Text("-d"),
				launch.Text(filepath.Join("/opt/ros/share/cartographer_ros", "configuration_files", "demo_2d.rviz")),
			},
		},
	}
	if diff := cmp.Diff(want, draft.Nodes()); diff != "" {
		t.Errorf("node declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestFinalize_WorldFile(t *testing.T) {
	t.Parallel()

	worldDir := filepath.Join("/opt/ros/share/stage_ros2", "world")
	cases := []struct {
		name      string
		overrides map[string]string
		want      string
	}{
		{name: "default world", overrides: nil, want: filepath.Join(worldDir, "my_house.world")},
		{name: "office", overrides: map[string]string{"world": "office"}, want: filepath.Join(worldDir, "office.world")},
		{name: "cave", overrides: map[string]string{"world": "cave"}, want: filepath.Join(worldDir, "cave.world")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, fin := composeAndFinalize(t, tc.overrides)
			require.Equal(t, tc.want, fin.Configurations["world_file"])

			stage, ok := fin.Description.Node(NodeStage)
			require.True(t, ok)
			p, ok := stage.Parameter(ParamWorldFile)
			require.True(t, ok)
			require.Equal(t, launch.Text(tc.want), p.Value)
		})
	}
}

func TestFinalize_OfficeLeavesOtherParametersUnchanged(t *testing.T) {
	t.Parallel()

	_, base := composeAndFinalize(t, nil)
	_, office := composeAndFinalize(t, map[string]string{"world": "office"})

	require.True(t, strings.HasSuffix(office.Configurations["world_file"], filepath.Join("world", "office.world")))

	for _, n := range base.Description.Nodes() {
		other, ok := office.Description.Node(n.Name)
		require.True(t, ok)
		for _, p := range n.Parameters {
			if p.Name == ParamWorldFile {
				continue
			}
			q, ok := other.Parameter(p.Name)
			require.True(t, ok)
			assert.Equal(t, p, q, "%s.%s changed", n.Name, p.Name)
		}
		assert.Equal(t, n.Arguments, other.Arguments)
		assert.Equal(t, n.Remappings, other.Remappings)
	}
}

func TestFinalize_UseSimTimePropagates(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"true", "false"} {
		t.Run(value, func(t *testing.T) {
			t.Parallel()
			_, fin := composeAndFinalize(t, map[string]string{"use_sim_time": value})

			for _, n := range fin.Description.Nodes() {
				p, ok := n.Parameter(ParamUseSimTime)
				require.True(t, ok, n.Name)
				require.Equal(t, launch.Text(value), p.Value, n.Name)
			}
			includes := fin.Description.Includes()
			require.Len(t, includes, 2)
			for _, inc := range includes {
				a, ok := inc.Argument(ConfigUseSimTime)
				require.True(t, ok)
				require.Equal(t, launch.Text(value), a.Value)
			}
		})
	}
}

func TestCompose_IsIdempotent(t *testing.T) {
	t.Parallel()

	c := New(testShares, config.Default())
	a, err := c.Compose(context.Background())
	require.NoError(t, err)
	b, err := c.Compose(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("compose is not idempotent (-first +second):\n%s", diff)
	}
}

func TestCompose_MissingPackage(t *testing.T) {
	t.Parallel()

	shares := ament.Static{"stage_ros2": "/s", "cartographer_ros": "/c"}
	_, err := New(shares, config.Default()).Compose(context.Background())

	var notFound *ament.PackageNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "nav2_bringup", notFound.Package)
}

func TestCompose_FlagsDuplicateNavigationIncludes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	draft, err := New(testShares, config.Default()).Compose(ctx)
	require.NoError(t, err)
	require.Len(t, draft.Duplicates(), 1)
	require.Contains(t, buf.String(), "needs clarification")
	require.Contains(t, buf.String(), "first=including_map_server")
}

func TestCompose_ConditionalNavigation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := config.Default()
	cfg.Navigation = []config.NavigationInclude{
		{Name: "amcl", LaunchFile: "launch/localization_launch.py", Condition: "$(var use_amcl false)"},
		{Name: "navigation", LaunchFile: "launch/navigation_launch.py"},
	}
	c := New(testShares, cfg)
	draft, err := c.Compose(ctx)
	require.NoError(t, err)
	require.Empty(t, draft.Duplicates())

	fin, err := c.Finalize(ctx, draft, nil)
	require.NoError(t, err)
	require.Len(t, fin.Description.Includes(), 1)

	fin, err = c.Finalize(ctx, draft, map[string]string{"use_amcl": "true"})
	require.NoError(t, err)
	require.Len(t, fin.Description.Includes(), 2)

	cfg.Navigation[0].Condition = "$(env X)"
	_, err = New(testShares, cfg).Compose(ctx)
	require.ErrorContains(t, err, "navigation include 'amcl' condition")
}

func TestCompose_ConditionFromOverrideOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := config.Default()
	cfg.Navigation = []config.NavigationInclude{
		{Name: "amcl", LaunchFile: "launch/localization_launch.py", Condition: "$(var use_amcl)"},
		{Name: "navigation", LaunchFile: "launch/navigation_launch.py"},
	}
	c := New(testShares, cfg)
	draft, err := c.Compose(ctx)
	require.NoError(t, err)

	fin, err := c.Finalize(ctx, draft, map[string]string{"use_amcl": "true"})
	require.NoError(t, err)
	require.Len(t, fin.Description.Includes(), 2)
	require.Equal(t, "/opt/ros/share/nav2_bringup/launch/localization_launch.py", fin.Description.Includes()[0].File.String())

	fin, err = c.Finalize(ctx, draft, map[string]string{"use_amcl": "false"})
	require.NoError(t, err)
	require.Len(t, fin.Description.Includes(), 1)

	_, err = c.Finalize(ctx, draft, nil)
	var unset *launch.UnsetConfigurationError
	require.True(t, errors.As(err, &unset), "unexpected error: %v", err)
}

func TestFinalize_WarnsOnPathLikeWorld(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	c := New(testShares, config.Default())
	draft, err := c.Compose(ctx)
	require.NoError(t, err)

	fin, err := c.Finalize(ctx, draft, map[string]string{"world": "../../etc/passwd"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "World name contains path elements")
	require.True(t, strings.HasSuffix(fin.Configurations["world_file"], "../../etc/passwd.world"))
}
