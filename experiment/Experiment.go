// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/deepracerenv/agent"
	"github.com/samuelfneumann/deepracerenv/agent/random"
	"github.com/samuelfneumann/deepracerenv/environment"
	"github.com/samuelfneumann/deepracerenv/environment/deepracer"
	"github.com/samuelfneumann/deepracerenv/experiment/tracker"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function
// will then take all cached data and save it to disk. This is usually
// performed after an experiment has been run. The Run() method will
// run all episodes util the maximum timestep limit is reached. The
// RunEpisode() function will run a single episode.
//
// In order to save data, Experiments use Trackers, registered per
// agent. Trackers determine which data generated during the experiment
// is saved.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step budget was reached

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker for an agent to the (possibly already
	// running) experiment. Useful if you want to track data only after
	// a specified event.
	Register(agentID environment.AgentID, t tracker.Tracker)
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment in which every
// agent of a DeepRacer environment acts with a random policy. Config
// files are YAML:
//
//	type: OnlineExperiment
//	maxSteps: 1000
//	seed: 42
//	env:
//	  address: localhost
//	  port: 8080
type Config struct {
	Type     Type             `yaml:"type"`
	MaxSteps uint             `yaml:"maxSteps"`
	Seed     uint64           `yaml:"seed"`
	Env      deepracer.Config `yaml:"env"`
}

// LoadConfig reads the YAML experiment Config file at path. Environment
// keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not read config: %w",
			err)
	}

	c := Config{Type: OnlineExp, Env: deepracer.DefaultConfig()}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not decode config: %w",
			err)
	}
	if err := c.Env.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v: %w", path, err)
	}
	return c, nil
}

// Connect creates the DeepRacer environment described by the Config
func (c Config) Connect(optFns ...func(o *deepracer.Options)) (
	*deepracer.DeepRacerEnv, error) {
	return deepracer.NewFromConfig(c.Env, optFns...)
}

// CreateExp creates an experiment on env. Each agent of env acts with
// a random.Uniform policy over its action space. Agents are seeded in
// sorted order, starting from the Config's seed.
func (c Config) CreateExp(env environment.MultiAgent,
	optFns ...func(o *Options)) (Experiment, error) {
	spaces, err := env.ActionSpace()
	if err != nil {
		return nil, fmt.Errorf("createExp: could not get action space: %w",
			err)
	}

	agents := maps.Keys(spaces)
	slices.Sort(agents)

	policies := make(map[environment.AgentID]agent.Policy, len(agents))
	for i, id := range agents {
		policy, err := random.New(spaces[id], c.Seed+uint64(i))
		if err != nil {
			return nil, fmt.Errorf("createExp: could not create policy "+
				"for agent %v: %w", id, err)
		}
		policies[id] = policy
	}

	switch c.Type {
	case OnlineExp:
		exp, err := NewOnline(env, policies, c.MaxSteps, optFns...)
		if err != nil {
			return nil, fmt.Errorf("createExp: %w", err)
		}
		return exp, nil
	}

	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}
