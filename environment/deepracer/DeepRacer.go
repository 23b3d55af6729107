// Package deepracer provides access to remote DeepRacer simulations as
// multi-agent environments.
//
// A DeepRacerEnv forwards every call to a session with the remote
// environment and to a config client bound to that session's side
// channel. Before forwarding, actions are checked to be finite
// (steering angle, speed) pairs, and track and shell names are
// normalized and checked against the names the remote environment
// reported when the DeepRacerEnv was created.
//
// The transport is supplied by a driver registered with package ude,
// and the config client by a factory registered with package
// envconfig:
//
//	env, err := deepracer.New("localhost", func(o *deepracer.Options) {
//		o.Port = 8080
//		o.Timeout = 15 * time.Second
//	})
package deepracer

import (
	"errors"
	"strings"

	"github.com/samuelfneumann/deepracerenv/environment"
	"github.com/samuelfneumann/deepracerenv/environment/envconfig"
	"github.com/samuelfneumann/deepracerenv/logging"
	"github.com/samuelfneumann/deepracerenv/ude"
)

// DeepRacerEnv implements a remote DeepRacer environment. It is not
// safe for concurrent use.
type DeepRacerEnv struct {
	env    ude.Environment
	config envconfig.Client
	logger logging.Logger

	// Valid names, fetched once on creation
	trackNames envconfig.NameSet
	shellNames envconfig.NameSet
}

var _ ude.Environment = (*DeepRacerEnv)(nil)

// New connects to the remote DeepRacer environment at address and
// fetches the track and shell names it supports. Errors from opening
// the session, creating the config client, or fetching the names are
// returned unchanged.
func New(address string, optFns ...func(o *Options)) (*DeepRacerEnv,
	error) {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	cfg := opts.channelConfig(address)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	driver, err := opts.driver()
	if err != nil {
		return nil, err
	}
	newConfigClient, err := opts.configClient()
	if err != nil {
		return nil, err
	}

	env, err := driver.Open(cfg)
	if err != nil {
		return nil, err
	}

	config, err := newConfigClient(env.SideChannel(), opts.Timeout,
		opts.MaxRetryAttempts)
	if err != nil {
		return nil, closeOnError(env, err)
	}

	area, err := config.GetArea()
	if err != nil {
		return nil, closeOnError(env, err)
	}

	trackNames, shellNames := envconfig.NameSet{}, envconfig.NameSet{}
	if area != nil {
		trackNames = area.TrackNames.Clone()
		shellNames = area.ShellNames.Clone()
	}

	opts.Logger.Info("connected to DeepRacer environment",
		"target", cfg.Target(),
		"compression", cfg.Compression.String(),
		"tracks", trackNames.Len(),
		"shells", shellNames.Len())

	return &DeepRacerEnv{
		env:        env,
		config:     config,
		logger:     opts.Logger,
		trackNames: trackNames,
		shellNames: shellNames,
	}, nil
}

// closeOnError closes a session that could not be fully set up. The
// setup error takes precedence over any error from closing.
func closeOnError(env ude.Environment, err error) error {
	if closeErr := env.Close(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}

// Step takes one step in the environment. Each action must hold at
// least two numbers, the steering angle and the speed; further
// elements are ignored. If any action is malformed or not finite, no
// step is taken and an *InvalidActionShapeError or
// *InvalidActionValueError is returned.
func (d *DeepRacerEnv) Step(actions environment.MultiAgentDict) (
	environment.StepResult, error) {
	validated, err := validateActions(actions)
	if err != nil {
		d.logger.Debug("rejected actions", "error", err)
		return environment.StepResult{}, err
	}

	return d.env.Step(validated)
}

// Reset starts a new episode and returns the first observation of each
// agent
func (d *DeepRacerEnv) Reset() (environment.MultiAgentDict, error) {
	return d.env.Reset()
}

// Close closes the session with the remote environment. The
// DeepRacerEnv cannot be used afterwards.
func (d *DeepRacerEnv) Close() error {
	return d.env.Close()
}

// ObservationSpace returns the observation space of each agent
func (d *DeepRacerEnv) ObservationSpace() (map[environment.AgentID]environment.Spec,
	error) {
	return d.env.ObservationSpace()
}

// ActionSpace returns the action space of each agent
func (d *DeepRacerEnv) ActionSpace() (map[environment.AgentID]environment.Spec,
	error) {
	return d.env.ActionSpace()
}

// SideChannel returns the side channel of the underlying session
func (d *DeepRacerEnv) SideChannel() ude.SideChannel {
	return d.env.SideChannel()
}

// GetTrack returns the current track configuration
func (d *DeepRacerEnv) GetTrack() (*envconfig.Track, error) {
	return d.config.GetTrack()
}

// ApplyTrack applies a track configuration. The track name is trimmed
// and lowercased in place before it is applied. If the name is not
// supported by the environment, an *InvalidTrackNameError is returned
// and track is left unchanged.
func (d *DeepRacerEnv) ApplyTrack(track *envconfig.Track) error {
	if track == nil {
		return errors.New("applyTrack: track is nil")
	}

	name := normalizeName(track.Name)
	if !d.trackNames.Has(name) {
		err := &InvalidTrackNameError{
			Name:       name,
			ValidNames: d.trackNames.Sorted(),
		}
		d.logger.Debug("rejected track", "error", err)
		return err
	}

	track.Name = name
	return d.config.ApplyTrack(track)
}

// GetAgent returns the configuration of the first agent in the
// environment. If the environment has no agents, GetAgent returns a
// nil agent and no error: the nil agent stands in for the empty agent
// collection, so callers must check for it before dereferencing.
func (d *DeepRacerEnv) GetAgent() (*envconfig.Agent, error) {
	agents, err := d.config.GetAgents()
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, nil
	}
	return agents[0], nil
}

// ApplyAgent applies an agent configuration. The shell name is trimmed
// and lowercased in place before it is applied. If the shell is not
// supported by the environment, an *InvalidShellNameError is returned
// and agent is left unchanged.
func (d *DeepRacerEnv) ApplyAgent(agent *envconfig.Agent) error {
	if agent == nil {
		return errors.New("applyAgent: agent is nil")
	}

	shell := normalizeName(agent.Shell)
	if !d.shellNames.Has(shell) {
		err := &InvalidShellNameError{
			Shell:      shell,
			ValidNames: d.shellNames.Sorted(),
		}
		d.logger.Debug("rejected shell", "error", err)
		return err
	}

	agent.Shell = shell
	return d.config.ApplyAgent(agent)
}

// TrackNames returns the sorted track names the environment reported
// on creation
func (d *DeepRacerEnv) TrackNames() []string {
	return d.trackNames.Sorted()
}

// ShellNames returns the sorted shell names the environment reported
// on creation
func (d *DeepRacerEnv) ShellNames() []string {
	return d.shellNames.Sorted()
}

// normalizeName trims surrounding whitespace and lowercases a track or
// shell name
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
