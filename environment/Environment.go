// Package environment outlines the interfaces and structs needed to
// interact with multi-agent environments
package environment

// AgentID identifies a single agent in a multi-agent environment
type AgentID string

// MultiAgentDict maps each agent in an environment to some value, such
// as an action, observation, or reward
type MultiAgentDict map[AgentID]interface{}

// StepResult packages together everything an environment returns after
// a single multi-agent step. Each field is keyed by agent.
type StepResult struct {
	Observations MultiAgentDict
	Rewards      map[AgentID]float64
	Dones        map[AgentID]bool
	LastActions  MultiAgentDict
	Info         map[string]interface{}
}

// Done returns whether every agent in the step result is done. A step
// result with no agents is not done.
func (s StepResult) Done() bool {
	if len(s.Dones) == 0 {
		return false
	}
	for _, done := range s.Dones {
		if !done {
			return false
		}
	}
	return true
}

// MultiAgent implements an environment in which a number of agents act
// simultaneously. Actions, observations, and spaces are keyed by agent.
type MultiAgent interface {
	// Step takes one step in the environment using the action of each
	// agent
	Step(actions MultiAgentDict) (StepResult, error)

	// Reset starts a new episode and returns the first observation of
	// each agent
	Reset() (MultiAgentDict, error)

	// Close releases the environment, after which it cannot be used
	Close() error

	ObservationSpace() (map[AgentID]Spec, error)
	ActionSpace() (map[AgentID]Spec, error)
}
