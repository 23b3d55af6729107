package tracker

import (
	"github.com/samuelfneumann/deepracerenv/environment"
	"github.com/samuelfneumann/deepracerenv/timestep"
)

// registeredTracker registers an agent with some Tracker so that the
// Tracker tracks data of the registered agent only. registeredTracker
// itself is a Tracker.
//
// In a multi-agent experiment every TimeStep of every agent is sent to
// every Tracker. The Track() method of a registeredTracker forwards
// only the TimeSteps of its agent to the embedded Tracker and ignores
// the rest. Save() is that of the embedded Tracker.
type registeredTracker struct {
	Tracker
	agent environment.AgentID
}

// Register registers a Tracker with an agent, to track data from the
// registered agent only.
//
// Note: the underlying concrete type of the registered Tracker is
// lost when registering an agent with a Tracker.
func Register(t Tracker, agent environment.AgentID) Tracker {
	return &registeredTracker{t, agent}
}

// Track calls Track() on the embedded Tracker if step belongs to the
// registered agent
func (r *registeredTracker) Track(step timestep.TimeStep) error {
	if step.Agent != r.agent {
		return nil
	}
	return r.Tracker.Track(step)
}
