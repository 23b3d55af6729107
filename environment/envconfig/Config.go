// Package envconfig provides the configuration of a remote DeepRacer
// environment: the track being raced on, the agents racing on it, and
// the area of valid track and shell names the connected environment
// supports. Configurations are read and applied through a Client bound
// to the side channel of a remote environment session.
package envconfig

// Defaults used by the remote environment when nothing is applied
const (
	DefaultAgentName = "agent0"
	DefaultShell     = "deepracer_black"
	DefaultTrack     = "reinvent_base"
)

// TrackDirection is the direction agents race around a track
type TrackDirection string

const (
	Clockwise        TrackDirection = "clockwise"
	CounterClockwise TrackDirection = "counter_clockwise"
)

// TrackLine is a lane of a track an agent can be placed on
type TrackLine string

const (
	CenterLine TrackLine = "center_line"
	InnerLane  TrackLine = "inner_lane"
	OuterLane  TrackLine = "outer_lane"
)

// SensorConfigType determines the sensors an agent observes with
type SensorConfigType string

const (
	Camera            SensorConfigType = "camera"
	StereoCamera      SensorConfigType = "stereo_camera"
	CameraLidar       SensorConfigType = "camera_lidar"
	StereoCameraLidar SensorConfigType = "stereo_camera_lidar"
)

// GameOverConditionType determines when an episode ends for the agents
// in an environment
type GameOverConditionType string

const (
	AnyAgentDone GameOverConditionType = "any"
	AllAgentDone GameOverConditionType = "all"
)

// Track is the course configuration applied to the simulation
type Track struct {
	Name      string
	Direction TrackDirection
}

// NewTrack returns a clockwise Track with the given name
func NewTrack(name string) *Track {
	return &Track{Name: name, Direction: Clockwise}
}

// Location is a starting position on a track. Progress is the fraction
// of the track completed, in [0, 1].
type Location struct {
	Progress float64
	Lane     TrackLine
}

// Agent is the configuration of one agent in the simulation. Shell
// selects the visual and physical presentation of the agent.
type Agent struct {
	Name              string
	Shell             string
	SensorConfig      SensorConfigType
	StartLocation     Location
	GameOverCondition GameOverConditionType
}

// NewAgent returns an Agent with the default shell, a single camera,
// and a starting location on the center line
func NewAgent(name string) *Agent {
	return &Agent{
		Name:              name,
		Shell:             DefaultShell,
		SensorConfig:      Camera,
		StartLocation:     Location{Progress: 0.0, Lane: CenterLine},
		GameOverCondition: AnyAgentDone,
	}
}

// Area holds every track name and shell name the connected remote
// environment supports
type Area struct {
	TrackNames NameSet
	ShellNames NameSet
}
