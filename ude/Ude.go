// Package ude defines the client side of a remote multi-agent
// environment: the session interface that remote environments satisfy,
// the side channel used for out-of-band data, the configuration of the
// channel a session is opened over, and a registry of drivers which
// implement the wire protocol.
//
// This package implements no wire protocol itself. A transport package
// registers a Driver in its init function, after which sessions can be
// opened with that driver by name:
//
//	import _ "example.com/ude/grpcdriver"
//
//	driver, err := ude.Lookup("grpc")
//	env, err := driver.Open(ude.ChannelConfig{Address: "localhost", Port: 80})
//
// Timeouts and retries of remote calls are the responsibility of the
// driver, configured through ChannelConfig.
package ude

import (
	"github.com/samuelfneumann/deepracerenv/environment"
)

// Environment is a session with a remote environment. Every method is
// a blocking remote call. Once Close returns, the session should no
// longer be used; the behaviour of further calls is driver-defined.
type Environment interface {
	environment.MultiAgent

	// SideChannel returns the channel used to exchange data with the
	// remote environment outside of Step and Reset
	SideChannel() SideChannel
}

// SideChannel is an auxiliary path to the remote environment, separate
// from the step/reset data path
type SideChannel interface {
	// Send sends a key/value pair to the remote environment. If
	// storeLocal is true, the value is also cached locally so that
	// Get returns it.
	Send(key string, value interface{}, storeLocal bool) error

	// Get returns the last value received or stored for key
	Get(key string) (interface{}, bool)

	Register(l Listener)
	Unregister(l Listener)
}

// Listener is notified of every message received on a SideChannel
type Listener interface {
	OnReceived(sc SideChannel, key string, value interface{})
}
