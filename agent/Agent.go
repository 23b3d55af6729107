// Package agent defines the interfaces of agents acting in multi-agent
// environments
package agent

import (
	"github.com/samuelfneumann/deepracerenv/timestep"
	"gonum.org/v1/gonum/mat"
)

// Policy determines how an agent selects actions.
//
// Policies are given the most recent TimeStep of the single agent they
// act for. The returned vector is the action sent to the environment
// for that agent.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
}

// Learner implements a learning algorithm that defines how an agent
// changes from the data it observes
type Learner interface {
	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// Observe records that an action lead to some timestep
	Observe(action mat.Vector, nextObs timestep.TimeStep) error

	// Step performs a single update to the learner
	Step() error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode()
}

// Agent is a Policy that learns from the actions it selects
type Agent interface {
	Learner
	Policy
}
