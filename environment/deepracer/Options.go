package deepracer

import (
	"crypto/tls"
	"time"

	"github.com/samuelfneumann/deepracerenv/environment/envconfig"
	"github.com/samuelfneumann/deepracerenv/logging"
	"github.com/samuelfneumann/deepracerenv/ude"
)

// Names the driver and config client are looked up under when none is
// given explicitly
const (
	DefaultDriver       = "grpc"
	DefaultConfigClient = "sidechannel"
)

// Options configures the connection to a remote DeepRacer environment
type Options struct {
	Port           int
	ChannelOptions []ude.ChannelOption
	Compression    ude.Compression

	// Credentials enables TLS. AuthKey can only be used with TLS.
	Credentials *tls.Config
	AuthKey     string

	// Timeout and MaxRetryAttempts apply to every remote call made by
	// both the session and the config client
	Timeout          time.Duration
	MaxRetryAttempts int

	// Driver opens the session. If nil, the driver registered with
	// package ude under DriverName is used.
	Driver     ude.Driver
	DriverName string

	// ConfigClient creates the config client. If nil, the factory
	// registered with package envconfig under ConfigClientName is used.
	ConfigClient     envconfig.Factory
	ConfigClientName string

	Logger logging.Logger
}

// DefaultOptions returns the options New starts from
func DefaultOptions() Options {
	return Options{
		Port:             ude.DefaultPort,
		Compression:      ude.NoCompression,
		Timeout:          ude.DefaultTimeout,
		MaxRetryAttempts: ude.DefaultMaxRetryAttempts,
		DriverName:       DefaultDriver,
		ConfigClientName: DefaultConfigClient,
		Logger:           logging.NoOpLogger{},
	}
}

func (o Options) channelConfig(address string) ude.ChannelConfig {
	return ude.ChannelConfig{
		Address:          address,
		Port:             o.Port,
		Options:          o.ChannelOptions,
		Compression:      o.Compression,
		Credentials:      o.Credentials,
		AuthKey:          o.AuthKey,
		Timeout:          o.Timeout,
		MaxRetryAttempts: o.MaxRetryAttempts,
	}
}

func (o Options) driver() (ude.Driver, error) {
	if o.Driver != nil {
		return o.Driver, nil
	}
	return ude.Lookup(o.DriverName)
}

func (o Options) configClient() (envconfig.Factory, error) {
	if o.ConfigClient != nil {
		return o.ConfigClient, nil
	}
	return envconfig.Lookup(o.ConfigClientName)
}
