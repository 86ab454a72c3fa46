package render

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/bringup/internal/ament"
	"github.com/specialistvlad/bringup/internal/composer"
	"github.com/specialistvlad/bringup/internal/config"
	"github.com/specialistvlad/bringup/internal/launch"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func session(t *testing.T, overrides map[string]string) (draft *launch.Description, finalized *launch.Description) {
	t.Helper()
	ctx := context.Background()
	c := composer.New(ament.Static{
		"stage_ros2":       "/ws/share/stage_ros2",
		"cartographer_ros": "/ws/share/cartographer_ros",
		"nav2_bringup":     "/ws/share/nav2_bringup",
	}, config.Default())

	d, err := c.Compose(ctx)
	require.NoError(t, err)
	fin, err := c.Finalize(ctx, d, overrides)
	require.NoError(t, err)
	return d, fin.Description
}

func TestEncode_FinalizedYAML(t *testing.T) {
	t.Parallel()

	_, fin := session(t, map[string]string{"world": "office"})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fin, FormatYAML))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Launch, 7)

	require.Equal(t, &Arg{Name: "world", Default: "my_house", Description: "World file relative to the project world file, without .world"}, doc.Launch[0].Arg)
	require.Equal(t, &Let{Name: "world_file", Value: "/ws/share/stage_ros2/world/office.world"}, doc.Launch[1].Let)

	want := &Node{
		Pkg:  "stage_ros2",
		Exec: "stage_ros2",
		Name: "stage",
		Param: []Param{
			{Name: "world_file", Value: "/ws/share/stage_ros2/world/office.world"},
			{Name: "use_sim_time", Value: true},
		},
		Remap: []Remap{{From: "/base_scan", To: "/scan"}},
	}
	if diff := cmp.Diff(want, doc.Launch[2].Node); diff != "" {
		t.Errorf("stage node mismatch (-want +got):\n%s", diff)
	}

	cartographer := doc.Launch[3].Node
	require.Equal(t, "screen", cartographer.Output)
	require.Equal(t, "-configuration_directory /ws/share/stage_ros2/config/cartographer -configuration_basename stage_2d.lua", cartographer.Args)

	grid := doc.Launch[4].Node
	require.Equal(t, []Param{{Name: "use_sim_time", Value: true}, {Name: "resolution", Value: 0.05}}, grid.Param)

	require.Equal(t, "-d /ws/share/cartographer_ros/configuration_files/demo_2d.rviz", doc.Launch[5].Node.Args)

	group := doc.Launch[6].Group
	require.NotNil(t, group)
	require.True(t, group.Scoped)
	require.Len(t, group.Children, 2)
	for _, child := range group.Children {
		require.Equal(t, "/ws/share/nav2_bringup/launch/nav2_navigation_only.launch.py", child.Include.File)
		require.Equal(t, []Param{{Name: "use_sim_time", Value: "true"}}, child.Include.Arg)
	}
}

func TestEncode_DraftKeepsSubstitutions(t *testing.T) {
	t.Parallel()

	draft, _ := session(t, nil)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, draft, FormatYAML))
	out := buf.String()

	require.Contains(t, out, "value: /ws/share/stage_ros2/world/$(var world).world")
	require.Contains(t, out, "value: $(var world_file)")
	require.Contains(t, out, "value: $(var use_sim_time true)")
	// Fixed values stay typed even in a draft.
	require.Contains(t, out, "value: 0.05")
}

func TestEncode_JSON(t *testing.T) {
	t.Parallel()

	_, fin := session(t, nil)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fin, FormatJSON))

	var raw map[string][]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	items := raw["launch"]
	require.Len(t, items, 7)

	var keys []string
	for _, item := range items {
		for k := range item {
			keys = append(keys, k)
		}
	}
	require.Equal(t, []string{"arg", "let", "node", "node", "node", "node", "group"}, keys)
}

func TestBuild_IncludeCondition(t *testing.T) {
	t.Parallel()

	d := launch.New(&launch.Group{Children: []launch.Entity{
		&launch.Include{File: launch.Text("/nav2/a.py"), Condition: launch.Var("use_amcl")},
	}})
	doc, err := Build(d)
	require.NoError(t, err)
	require.Equal(t, "$(var use_amcl)", doc.Launch[0].Group.Children[0].Include.If)
}

func TestJoinArgs(t *testing.T) {
	t.Parallel()

	got := joinArgs([]launch.Substitution{launch.Text("-d"), launch.Text("/my dir/x.rviz"), launch.Text("")})
	require.Equal(t, "-d '/my dir/x.rviz' ''", got)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}
