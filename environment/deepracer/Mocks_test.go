package deepracer

import (
	"time"

	"github.com/samuelfneumann/deepracerenv/environment"
	"github.com/samuelfneumann/deepracerenv/environment/envconfig"
	"github.com/samuelfneumann/deepracerenv/ude"
	"github.com/stretchr/testify/mock"
)

// mockSession is a remote environment session
type mockSession struct {
	mock.Mock
}

var _ ude.Environment = (*mockSession)(nil)

func (m *mockSession) Step(actions environment.MultiAgentDict) (
	environment.StepResult, error) {
	args := m.Called(actions)
	result, _ := args.Get(0).(environment.StepResult)
	return result, args.Error(1)
}

func (m *mockSession) Reset() (environment.MultiAgentDict, error) {
	args := m.Called()
	obs, _ := args.Get(0).(environment.MultiAgentDict)
	return obs, args.Error(1)
}

func (m *mockSession) Close() error {
	return m.Called().Error(0)
}

func (m *mockSession) ObservationSpace() (map[environment.AgentID]environment.Spec,
	error) {
	args := m.Called()
	spaces, _ := args.Get(0).(map[environment.AgentID]environment.Spec)
	return spaces, args.Error(1)
}

func (m *mockSession) ActionSpace() (map[environment.AgentID]environment.Spec,
	error) {
	args := m.Called()
	spaces, _ := args.Get(0).(map[environment.AgentID]environment.Spec)
	return spaces, args.Error(1)
}

func (m *mockSession) SideChannel() ude.SideChannel {
	sc, _ := m.Called().Get(0).(ude.SideChannel)
	return sc
}

// mockConfigClient is a DeepRacer config client
type mockConfigClient struct {
	mock.Mock
}

var _ envconfig.Client = (*mockConfigClient)(nil)

func (m *mockConfigClient) GetArea() (*envconfig.Area, error) {
	args := m.Called()
	area, _ := args.Get(0).(*envconfig.Area)
	return area, args.Error(1)
}

func (m *mockConfigClient) GetTrack() (*envconfig.Track, error) {
	args := m.Called()
	track, _ := args.Get(0).(*envconfig.Track)
	return track, args.Error(1)
}

func (m *mockConfigClient) ApplyTrack(track *envconfig.Track) error {
	return m.Called(track).Error(0)
}

func (m *mockConfigClient) GetAgents() ([]*envconfig.Agent, error) {
	args := m.Called()
	agents, _ := args.Get(0).([]*envconfig.Agent)
	return agents, args.Error(1)
}

func (m *mockConfigClient) ApplyAgent(agent *envconfig.Agent) error {
	return m.Called(agent).Error(0)
}

// fakeSideChannel stores sent values locally
type fakeSideChannel struct {
	values    map[string]interface{}
	listeners []ude.Listener
}

func newFakeSideChannel() *fakeSideChannel {
	return &fakeSideChannel{values: make(map[string]interface{})}
}

func (f *fakeSideChannel) Send(key string, value interface{},
	storeLocal bool) error {
	if storeLocal {
		f.values[key] = value
	}
	return nil
}

func (f *fakeSideChannel) Get(key string) (interface{}, bool) {
	value, ok := f.values[key]
	return value, ok
}

func (f *fakeSideChannel) Register(l ude.Listener) {
	f.listeners = append(f.listeners, l)
}

func (f *fakeSideChannel) Unregister(l ude.Listener) {
	for i, registered := range f.listeners {
		if registered == l {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}

// fixture wires mocks into a DeepRacerEnv and records how the
// collaborators were created
type fixture struct {
	session     *mockSession
	config      *mockConfigClient
	sideChannel *fakeSideChannel
	area        *envconfig.Area

	opened []ude.ChannelConfig

	factorySideChannel ude.SideChannel
	factoryTimeout     time.Duration
	factoryRetries     int
}

func newFixture() *fixture {
	return &fixture{
		session:     &mockSession{},
		config:      &mockConfigClient{},
		sideChannel: newFakeSideChannel(),
		area: &envconfig.Area{
			TrackNames: envconfig.NewNameSet("reinvent", "red_star_open"),
			ShellNames: envconfig.NewNameSet("deepracer_black",
				"deepracer_white", "banana_blue"),
		},
	}
}

func (f *fixture) driver() ude.Driver {
	return ude.DriverFunc(func(cfg ude.ChannelConfig) (ude.Environment,
		error) {
		f.opened = append(f.opened, cfg)
		return f.session, nil
	})
}

func (f *fixture) factory(sc ude.SideChannel, timeout time.Duration,
	maxRetryAttempts int) (envconfig.Client, error) {
	f.factorySideChannel = sc
	f.factoryTimeout = timeout
	f.factoryRetries = maxRetryAttempts
	return f.config, nil
}

func (f *fixture) options(o *Options) {
	o.Driver = f.driver()
	o.ConfigClient = f.factory
}

// expectConnect sets up the calls made by New
func (f *fixture) expectConnect() {
	f.session.On("SideChannel").Return(f.sideChannel)
	f.config.On("GetArea").Return(f.area, nil).Once()
}

func (f *fixture) newEnv(optFns ...func(o *Options)) (*DeepRacerEnv, error) {
	f.expectConnect()
	return New("test_ip", append([]func(o *Options){f.options},
		optFns...)...)
}
