package ude

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnknownDriver is returned when looking up a driver that has not
// been registered
var ErrUnknownDriver = errors.New("unknown driver")

// Driver opens sessions with remote environments over some wire
// protocol
type Driver interface {
	Open(cfg ChannelConfig) (Environment, error)
}

// DriverFunc adapts an ordinary function to a Driver
type DriverFunc func(cfg ChannelConfig) (Environment, error)

// Open calls f(cfg)
func (f DriverFunc) Open(cfg ChannelConfig) (Environment, error) {
	return f(cfg)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available by name. Transport packages
// usually call Register from their init function.
//
// Register panics if driver is nil or if a driver with the same name
// has already been registered.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if driver == nil {
		panic("register: driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic(fmt.Sprintf("register: driver %q registered twice", name))
	}
	drivers[name] = driver
}

// Lookup returns the driver registered under name
func Lookup(name string) (Driver, error) {
	driversMu.RLock()
	driver, ok := drivers[name]
	driversMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("lookup: %w %q (forgotten import?)",
			ErrUnknownDriver, name)
	}
	return driver, nil
}

// Drivers returns the sorted names of all registered drivers
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := maps.Keys(drivers)
	slices.Sort(names)
	return names
}
