package experiment

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samuelfneumann/deepracerenv/agent"
	"github.com/samuelfneumann/deepracerenv/agent/random"
	"github.com/samuelfneumann/deepracerenv/environment"
	"github.com/samuelfneumann/deepracerenv/environment/deepracer"
	"github.com/samuelfneumann/deepracerenv/environment/envconfig"
	"github.com/samuelfneumann/deepracerenv/experiment/tracker"
	"github.com/samuelfneumann/deepracerenv/logging"
	ts "github.com/samuelfneumann/deepracerenv/timestep"
	"github.com/samuelfneumann/deepracerenv/ude"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

var actionBounds = []r1.Interval{{Min: -30, Max: 30}, {Min: 0, Max: 4}}

// scriptedEnv is an environment in which each agent receives a reward
// of 1 per step and is done after a fixed number of steps
type scriptedEnv struct {
	lengths map[environment.AgentID]int
	t       int

	resets  int
	actions []environment.MultiAgentDict

	resetErr error
	stepErr  error
}

var _ ude.Environment = (*scriptedEnv)(nil)

func newScriptedEnv(lengths map[environment.AgentID]int) *scriptedEnv {
	return &scriptedEnv{lengths: lengths}
}

func (s *scriptedEnv) Reset() (environment.MultiAgentDict, error) {
	if s.resetErr != nil {
		return nil, s.resetErr
	}
	s.resets++
	s.t = 0

	obs := make(environment.MultiAgentDict, len(s.lengths))
	for id := range s.lengths {
		obs[id] = []float64{0}
	}
	return obs, nil
}

func (s *scriptedEnv) Step(actions environment.MultiAgentDict) (
	environment.StepResult, error) {
	if s.stepErr != nil {
		return environment.StepResult{}, s.stepErr
	}
	s.actions = append(s.actions, actions)
	s.t++

	result := environment.StepResult{
		Observations: environment.MultiAgentDict{},
		Rewards:      map[environment.AgentID]float64{},
		Dones:        map[environment.AgentID]bool{},
	}
	for id, length := range s.lengths {
		result.Dones[id] = s.t >= length
		if _, acted := actions[id]; acted {
			result.Observations[id] = []float64{float64(s.t)}
			result.Rewards[id] = 1
		}
	}
	return result, nil
}

func (s *scriptedEnv) Close() error { return nil }

func (s *scriptedEnv) ObservationSpace() (
	map[environment.AgentID]environment.Spec, error) {
	return s.spaces(environment.Observation), nil
}

func (s *scriptedEnv) ActionSpace() (map[environment.AgentID]environment.Spec,
	error) {
	return s.spaces(environment.Action), nil
}

func (s *scriptedEnv) spaces(t environment.SpecType) map[environment.AgentID]environment.Spec {
	spaces := make(map[environment.AgentID]environment.Spec, len(s.lengths))
	for id := range s.lengths {
		spaces[id] = environment.NewBoxSpec(t, actionBounds)
	}
	return spaces
}

func (s *scriptedEnv) SideChannel() ude.SideChannel { return nil }

// emptyConfigClient reports an area with no tracks or shells
type emptyConfigClient struct {
	envconfig.Client
}

func (emptyConfigClient) GetArea() (*envconfig.Area, error) {
	return &envconfig.Area{}, nil
}

// countingPolicy is an agent.Agent that always selects the same action
// and counts the calls made to it
type countingPolicy struct {
	first, observed, steps, ended int
	lastAction                    mat.Vector
}

var _ agent.Agent = (*countingPolicy)(nil)

func (c *countingPolicy) SelectAction(ts.TimeStep) *mat.VecDense {
	return deepracer.NewAction(0, 1)
}

func (c *countingPolicy) ObserveFirst(ts.TimeStep) error {
	c.first++
	return nil
}

func (c *countingPolicy) Observe(action mat.Vector, _ ts.TimeStep) error {
	c.observed++
	c.lastAction = action
	return nil
}

func (c *countingPolicy) Step() error {
	c.steps++
	return nil
}

func (c *countingPolicy) EndEpisode() {
	c.ended++
}

func uniformPolicies(t *testing.T, ids ...environment.AgentID) map[environment.AgentID]agent.Policy {
	t.Helper()

	policies := make(map[environment.AgentID]agent.Policy, len(ids))
	for i, id := range ids {
		policy, err := random.New(environment.NewBoxSpec(environment.Action,
			actionBounds), uint64(i))
		require.NoError(t, err)
		policies[id] = policy
	}
	return policies
}

func TestOnlineRunEpisode(t *testing.T) {
	env := newScriptedEnv(map[environment.AgentID]int{
		"agent0": 3,
		"agent1": 2,
	})
	exp, err := NewOnline(env, uniformPolicies(t, "agent0", "agent1"), 100)
	require.NoError(t, err)

	dir := t.TempDir()
	returns := map[environment.AgentID]*tracker.Return{}
	lengths := map[environment.AgentID]*tracker.EpisodeLength{}
	for _, id := range []environment.AgentID{"agent0", "agent1"} {
		returns[id] = tracker.NewReturn(filepath.Join(dir, string(id)+"_return"))
		lengths[id] = tracker.NewEpisodeLength(filepath.Join(dir,
			string(id)+"_length"))
		exp.Register(id, returns[id])
		exp.Register(id, lengths[id])
	}

	ended, err := exp.RunEpisode()
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, uint(3), exp.Steps())
	assert.Equal(t, 1, exp.Episodes())

	assert.Equal(t, []float64{3}, returns["agent0"].Data())
	assert.Equal(t, []float64{2}, returns["agent1"].Data())
	assert.Equal(t, []float64{3}, lengths["agent0"].Data())
	assert.Equal(t, []float64{2}, lengths["agent1"].Data())

	// Done agents stop acting
	require.Len(t, env.actions, 3)
	assert.Len(t, env.actions[0], 2)
	assert.Len(t, env.actions[1], 2)
	assert.Len(t, env.actions[2], 1)
	assert.Contains(t, env.actions[2], environment.AgentID("agent0"))

	for _, actions := range env.actions {
		for _, action := range actions {
			vec, ok := action.(*mat.VecDense)
			require.True(t, ok)
			for i, b := range actionBounds {
				assert.GreaterOrEqual(t, vec.AtVec(i), b.Min)
				assert.LessOrEqual(t, vec.AtVec(i), b.Max)
			}
		}
	}
}

func TestOnlineRunStepBudget(t *testing.T) {
	env := newScriptedEnv(map[environment.AgentID]int{"agent0": 3})
	exp, err := NewOnline(env, uniformPolicies(t, "agent0"), 5)
	require.NoError(t, err)

	r := tracker.NewReturn(filepath.Join(t.TempDir(), "return"))
	exp.Register("agent0", r)

	require.NoError(t, exp.Run())
	assert.Equal(t, uint(5), exp.Steps())
	assert.Equal(t, 2, exp.Episodes())
	assert.Equal(t, 2, env.resets)

	// The second episode is cut off by the step budget
	assert.Equal(t, []float64{3}, r.Data())
}

func TestOnlineLearner(t *testing.T) {
	env := newScriptedEnv(map[environment.AgentID]int{"agent0": 4})
	policy := &countingPolicy{}
	exp, err := NewOnline(env, map[environment.AgentID]agent.Policy{
		"agent0": policy,
	}, 8)
	require.NoError(t, err)

	require.NoError(t, exp.Run())
	assert.Equal(t, 2, policy.first)
	assert.Equal(t, 8, policy.observed)
	assert.Equal(t, 8, policy.steps)
	assert.Equal(t, 2, policy.ended)
	assert.Equal(t, []float64{0, 1},
		policy.lastAction.(*mat.VecDense).RawVector().Data)
}

func TestOnlineThroughDeepRacerEnv(t *testing.T) {
	session := newScriptedEnv(map[environment.AgentID]int{"agent0": 2})
	env, err := deepracer.New("sim", func(o *deepracer.Options) {
		o.Driver = ude.DriverFunc(func(ude.ChannelConfig) (ude.Environment,
			error) {
			return session, nil
		})
		o.ConfigClient = func(ude.SideChannel, time.Duration, int) (
			envconfig.Client, error) {
			return emptyConfigClient{}, nil
		}
	})
	require.NoError(t, err)

	exp, err := NewOnline(env, uniformPolicies(t, "agent0"), 2)
	require.NoError(t, err)

	r := tracker.NewReturn(filepath.Join(t.TempDir(), "return"))
	exp.Register("agent0", r)

	require.NoError(t, exp.Run())
	require.Len(t, session.actions, 2)
	for _, actions := range session.actions {
		vec, ok := actions["agent0"].(*mat.VecDense)
		require.True(t, ok)
		assert.Equal(t, deepracer.ActionDims, vec.Len())
	}
	assert.Equal(t, []float64{2}, r.Data())
}

func TestNewOnlineInvalid(t *testing.T) {
	env := newScriptedEnv(map[environment.AgentID]int{"agent0": 1})

	_, err := NewOnline(nil, uniformPolicies(t, "agent0"), 1)
	assert.Error(t, err)

	_, err = NewOnline(env, nil, 1)
	assert.Error(t, err)

	_, err = NewOnline(env, map[environment.AgentID]agent.Policy{
		"agent0": nil,
	}, 1)
	assert.Error(t, err)
}

func TestOnlineErrors(t *testing.T) {
	errRemote := errors.New("remote failure")

	t.Run("reset", func(t *testing.T) {
		env := newScriptedEnv(map[environment.AgentID]int{"agent0": 1})
		env.resetErr = errRemote
		exp, err := NewOnline(env, uniformPolicies(t, "agent0"), 1)
		require.NoError(t, err)

		assert.ErrorIs(t, exp.Run(), errRemote)
	})

	t.Run("step", func(t *testing.T) {
		env := newScriptedEnv(map[environment.AgentID]int{"agent0": 1})
		env.stepErr = errRemote
		exp, err := NewOnline(env, uniformPolicies(t, "agent0"), 1)
		require.NoError(t, err)

		_, err = exp.RunEpisode()
		assert.ErrorIs(t, err, errRemote)
	})

	t.Run("missing policy", func(t *testing.T) {
		env := newScriptedEnv(map[environment.AgentID]int{
			"agent0": 1,
			"agent1": 1,
		})
		exp, err := NewOnline(env, uniformPolicies(t, "agent0"), 1)
		require.NoError(t, err)

		_, err = exp.RunEpisode()
		assert.ErrorContains(t, err, "agent1")
		assert.Empty(t, env.actions)
	})

	t.Run("empty reset", func(t *testing.T) {
		env := newScriptedEnv(map[environment.AgentID]int{})
		exp, err := NewOnline(env, uniformPolicies(t, "agent0"), 10)
		require.NoError(t, err)

		assert.ErrorContains(t, exp.Run(), "no agents")
		assert.Equal(t, 1, env.resets)
		assert.Empty(t, env.actions)
		assert.Zero(t, exp.Steps())
	})
}

func TestOnlineSave(t *testing.T) {
	env := newScriptedEnv(map[environment.AgentID]int{"agent0": 2})
	exp, err := NewOnline(env, uniformPolicies(t, "agent0"), 4)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "return")
	exp.Register("agent0", tracker.NewReturn(path))

	require.NoError(t, exp.Run())
	require.NoError(t, exp.Save())

	data, err := tracker.LoadData(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, data)

	exp.Register("agent0", tracker.NewReturn(filepath.Join(t.TempDir(),
		"missing", "return")))
	assert.Error(t, exp.Save())
}

func TestOnlineLogsAndProgress(t *testing.T) {
	var logs, progress bytes.Buffer
	id := uuid.New()

	env := newScriptedEnv(map[environment.AgentID]int{"agent0": 2})
	exp, err := NewOnline(env, uniformPolicies(t, "agent0"), 2,
		func(o *Options) {
			o.Logger = logging.NewTextLogger(&logs, logging.LevelInfo)
			o.Progress = &progress
			o.ProgressWidth = 10
			o.RunID = id
		})
	require.NoError(t, err)
	assert.Equal(t, id, exp.RunID())

	require.NoError(t, exp.Run())
	assert.Contains(t, logs.String(), "run_id="+id.String())
	assert.Contains(t, logs.String(), "episode finished")
	assert.Contains(t, progress.String(), "100.00%")
}

func TestOnlineRandomRunID(t *testing.T) {
	env := newScriptedEnv(map[environment.AgentID]int{"agent0": 1})
	first, err := NewOnline(env, uniformPolicies(t, "agent0"), 1)
	require.NoError(t, err)
	second, err := NewOnline(env, uniformPolicies(t, "agent0"), 1)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, first.RunID())
	assert.NotEqual(t, first.RunID(), second.RunID())
}
