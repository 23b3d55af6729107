// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"github.com/samuelfneumann/deepracerenv/environment"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep of one agent in a
// multi-agent environment. The Observation is whatever the remote
// environment reported for the agent.
type TimeStep struct {
	stepType    StepType
	Agent       environment.AgentID
	Reward      float64
	Discount    float64
	Observation interface{}
	Number      int
}

func New(agent environment.AgentID, t StepType, r, d float64, o interface{},
	n int) TimeStep {
	return TimeStep{t, agent, r, d, o, n}
}

// FromReset returns the first TimeStep of each agent given the
// observations returned when an environment is reset
func FromReset(obs environment.MultiAgentDict) map[environment.AgentID]TimeStep {
	steps := make(map[environment.AgentID]TimeStep, len(obs))
	for agent, o := range obs {
		steps[agent] = New(agent, First, 0, 1, o, 0)
	}
	return steps
}

// FromStepResult returns the TimeStep of each agent that reported an
// observation in result. An agent whose done flag is set gets a Last
// TimeStep with zero discount. The argument n is the step number.
func FromStepResult(result environment.StepResult,
	n int) map[environment.AgentID]TimeStep {
	steps := make(map[environment.AgentID]TimeStep, len(result.Observations))
	for agent, o := range result.Observations {
		stepType, discount := Mid, 1.0
		if result.Dones[agent] {
			stepType, discount = Last, 0.0
		}
		steps[agent] = New(agent, stepType, result.Rewards[agent], discount,
			o, n)
	}
	return steps
}

// StepType returns the type of the TimeStep
func (t *TimeStep) StepType() StepType {
	return t.stepType
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.stepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.stepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.stepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Agent: %v  |  Type: %v  |  Reward:  %.2f  |  " +
		"Discount: %.2f  |  Step Number:  %v"

	return fmt.Sprintf(str, t.Agent, t.stepType, t.Reward, t.Discount,
		t.Number)
}
