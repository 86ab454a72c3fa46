package composer

import "github.com/specialistvlad/bringup/internal/launch"

// Parameter names recognized by the composed nodes.
const (
	ParamUseSimTime = "use_sim_time"
	ParamWorldFile  = "world_file"
	ParamResolution = "resolution"
)

// StageParams are the parameters of the stage simulator node.
type StageParams struct {
	WorldFile  launch.Substitution
	UseSimTime launch.Substitution
}

func (p StageParams) parameters() []launch.Parameter {
	return []launch.Parameter{
		launch.StringParam(ParamWorldFile, p.WorldFile),
		launch.BoolParam(ParamUseSimTime, p.UseSimTime),
	}
}

// CartographerParams are the parameters of the cartographer SLAM node.
type CartographerParams struct {
	UseSimTime launch.Substitution
}

func (p CartographerParams) parameters() []launch.Parameter {
	return []launch.Parameter{launch.BoolParam(ParamUseSimTime, p.UseSimTime)}
}

// OccupancyGridParams are the parameters of the occupancy grid publisher.
type OccupancyGridParams struct {
	UseSimTime launch.Substitution
	Resolution float64
}

func (p OccupancyGridParams) parameters() []launch.Parameter {
	return []launch.Parameter{
		launch.BoolParam(ParamUseSimTime, p.UseSimTime),
		launch.DoubleParam(ParamResolution, p.Resolution),
	}
}

// RvizParams are the parameters of the rviz2 visualizer.
type RvizParams struct {
	UseSimTime launch.Substitution
}

func (p RvizParams) parameters() []launch.Parameter {
	return []launch.Parameter{launch.BoolParam(ParamUseSimTime, p.UseSimTime)}
}
