package envconfig

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samuelfneumann/deepracerenv/ude"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnknownClient is returned when looking up a Client factory which
// has not been registered
var ErrUnknownClient = errors.New("unknown config client")

// Client reads and applies the configuration of a remote DeepRacer
// environment. Every method is a blocking remote call whose timeout
// and retries were fixed when the Client was created.
type Client interface {
	GetArea() (*Area, error)
	GetTrack() (*Track, error)
	ApplyTrack(track *Track) error
	GetAgents() ([]*Agent, error)
	ApplyAgent(agent *Agent) error
}

// Factory creates a Client which communicates over a side channel
type Factory func(sc ude.SideChannel, timeout time.Duration,
	maxRetryAttempts int) (Client, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes a Client factory available by name. Register panics
// if factory is nil or if name has already been registered.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	if factory == nil {
		panic("register: config client factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic(fmt.Sprintf("register: config client %q registered twice",
			name))
	}
	factories[name] = factory
}

// Lookup returns the Client factory registered under name
func Lookup(name string) (Factory, error) {
	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("lookup: %w %q (forgotten import?)",
			ErrUnknownClient, name)
	}
	return factory, nil
}

// Clients returns the sorted names of all registered Client factories
func Clients() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := maps.Keys(factories)
	slices.Sort(names)
	return names
}
