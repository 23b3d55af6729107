package experiment

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/samuelfneumann/deepracerenv/agent"
	"github.com/samuelfneumann/deepracerenv/environment"
	"github.com/samuelfneumann/deepracerenv/experiment/tracker"
	"github.com/samuelfneumann/deepracerenv/logging"
	ts "github.com/samuelfneumann/deepracerenv/timestep"
	"github.com/samuelfneumann/deepracerenv/utils/progressbar"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// DefaultProgressWidth is the width in characters of the progress bar
// of an Online experiment
const DefaultProgressWidth = 50

// Options configures an Online experiment
type Options struct {
	// Logger receives per-episode summaries. Defaults to a NoOpLogger.
	Logger logging.Logger

	// Progress, if not nil, receives a progress bar over the step
	// budget of the experiment
	Progress      io.Writer
	ProgressWidth int

	// RunID identifies the experiment in logs. A random ID is used if
	// RunID is the zero UUID.
	RunID uuid.UUID
}

// Online is an Experiment that runs a number of agents online in a
// multi-agent environment. No offline evaluation is performed.
type Online struct {
	env      environment.MultiAgent
	policies map[environment.AgentID]agent.Policy

	maxSteps     uint
	currentSteps uint
	episodes     int

	trackers []tracker.Tracker
	logger   logging.Logger
	runID    uuid.UUID
	progress *progressbar.ManualProgressBar
}

// NewOnline creates and returns a new online experiment on a given
// environment, where each agent acts with the Policy in policies under
// its AgentID. The maxSteps parameter determines how many environment
// steps the experiment is run for.
//
// If a Policy is also an agent.Learner, it observes the TimeSteps of its
// agent and is stepped after every environment step.
func NewOnline(env environment.MultiAgent,
	policies map[environment.AgentID]agent.Policy, maxSteps uint,
	optFns ...func(o *Options)) (*Online, error) {
	if env == nil {
		return nil, errors.New("newOnline: environment is nil")
	}
	if len(policies) == 0 {
		return nil, errors.New("newOnline: at least one policy is required")
	}
	for id, policy := range policies {
		if policy == nil {
			return nil, fmt.Errorf("newOnline: policy for agent %v is nil", id)
		}
	}

	opts := Options{ProgressWidth: DefaultProgressWidth}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}

	var progress *progressbar.ManualProgressBar
	if opts.Progress != nil {
		progress = progressbar.NewManualProgressBar(opts.Progress,
			opts.ProgressWidth, int(maxSteps))
	}

	return &Online{
		env:      env,
		policies: maps.Clone(policies),
		maxSteps: maxSteps,
		logger:   logging.With(opts.Logger, "run_id", opts.RunID.String()),
		runID:    opts.RunID,
		progress: progress,
	}, nil
}

// RunID returns the ID identifying the experiment in logs
func (o *Online) RunID() uuid.UUID {
	return o.runID
}

// Steps returns the number of environment steps taken so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Episodes returns the number of episodes started so far
func (o *Online) Episodes() int {
	return o.episodes
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated by the given agent during the experiment can be tracked
// and saved
func (o *Online) Register(agentID environment.AgentID, t tracker.Tracker) {
	o.trackers = append(o.trackers, tracker.Register(t, agentID))
}

// RunEpisode runs a single episode of the experiment. The episode ends
// when every agent is done or the step budget of the experiment is
// exhausted. RunEpisode returns whether the step budget has been
// exhausted.
func (o *Online) RunEpisode() (bool, error) {
	obs, err := o.env.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: could not reset: %w", err)
	}
	o.episodes++

	steps := ts.FromReset(obs)
	if len(steps) == 0 {
		return false, errors.New("runEpisode: environment reset with no " +
			"agents")
	}
	for _, id := range sortedAgents(steps) {
		if _, ok := o.policies[id]; !ok {
			return false, fmt.Errorf("runEpisode: no policy for agent %v", id)
		}
		if err := o.observeFirst(steps[id]); err != nil {
			return false, err
		}
	}

	returns := make(map[environment.AgentID]float64, len(steps))
	episodeSteps := 0
	done := false

	for !done && o.currentSteps < o.maxSteps {
		// Select actions for the agents still acting
		actions := make(environment.MultiAgentDict, len(steps))
		vecs := make(map[environment.AgentID]*mat.VecDense, len(steps))
		for _, id := range sortedAgents(steps) {
			if step := steps[id]; !step.Last() {
				vecs[id] = o.policies[id].SelectAction(step)
				actions[id] = vecs[id]
			}
		}

		result, err := o.env.Step(actions)
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not step: %w", err)
		}
		o.currentSteps++
		episodeSteps++

		next := ts.FromStepResult(result, episodeSteps)
		for _, id := range sortedAgents(next) {
			// Agents that did not act this step are not observed
			action, acted := vecs[id]
			if !acted {
				continue
			}

			step := next[id]
			if err := o.observe(action, step); err != nil {
				return false, err
			}
			returns[id] += step.Reward
			steps[id] = step
		}

		done = result.Done() || allLast(steps)
		o.displayProgress()
	}

	for _, id := range sortedAgents(steps) {
		if learner, ok := o.policies[id].(agent.Learner); ok {
			learner.EndEpisode()
		}
	}

	o.logger.Info("episode finished",
		"episode", o.episodes,
		"steps", episodeSteps,
		"done", done,
		"returns", returns)

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	o.logger.Info("experiment started", "max_steps", o.maxSteps,
		"agents", len(o.policies))

	for ended := false; !ended; {
		var err error
		if ended, err = o.RunEpisode(); err != nil {
			o.logger.Error("experiment failed", "error", err)
			return err
		}
	}

	if o.progress != nil {
		if err := o.progress.Close(); err != nil {
			return fmt.Errorf("run: could not close progress bar: %w", err)
		}
	}

	o.logger.Info("experiment finished", "steps", o.currentSteps,
		"episodes", o.episodes)
	return nil
}

// Save saves all the data cached by the Trackers to disk. Every Tracker
// is saved even if some fail.
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		errs = append(errs, t.Save())
	}
	return errors.Join(errs...)
}

// observeFirst tracks the first TimeStep of an agent and passes it to
// the agent's Learner
func (o *Online) observeFirst(step ts.TimeStep) error {
	if err := o.track(step); err != nil {
		return err
	}

	if learner, ok := o.policies[step.Agent].(agent.Learner); ok {
		if err := learner.ObserveFirst(step); err != nil {
			return fmt.Errorf("observeFirst: agent %v: %w", step.Agent, err)
		}
	}
	return nil
}

// observe tracks the TimeStep an agent reached after taking action and
// updates the agent's Learner
func (o *Online) observe(action *mat.VecDense, step ts.TimeStep) error {
	if err := o.track(step); err != nil {
		return err
	}

	learner, ok := o.policies[step.Agent].(agent.Learner)
	if !ok {
		return nil
	}
	if err := learner.Observe(action, step); err != nil {
		return fmt.Errorf("observe: agent %v: %w", step.Agent, err)
	}
	if err := learner.Step(); err != nil {
		return fmt.Errorf("observe: agent %v: %w", step.Agent, err)
	}
	return nil
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) error {
	for _, tr := range o.trackers {
		if err := tr.Track(t); err != nil {
			return fmt.Errorf("track: %w", err)
		}
	}
	return nil
}

func (o *Online) displayProgress() {
	if o.progress == nil {
		return
	}
	o.progress.Increment()
	if err := o.progress.Display(); err != nil {
		o.logger.Warn("could not display progress", "error", err)
	}
}

func sortedAgents(steps map[environment.AgentID]ts.TimeStep) []environment.AgentID {
	agents := maps.Keys(steps)
	slices.Sort(agents)
	return agents
}

func allLast(steps map[environment.AgentID]ts.TimeStep) bool {
	for _, step := range steps {
		if !step.Last() {
			return false
		}
	}
	return true
}
