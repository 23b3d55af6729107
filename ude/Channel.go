package ude

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default channel parameters
const (
	DefaultPort             = 80
	DefaultTimeout          = 10 * time.Second
	DefaultMaxRetryAttempts = 5
)

// Compression is the compression applied to messages on a channel
type Compression int

const (
	NoCompression Compression = iota
	Deflate
	Gzip
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case Deflate:
		return "deflate"
	case Gzip:
		return "gzip"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// ParseCompression returns the Compression with the given name. Names
// are matched case-insensitively and the empty name is NoCompression.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "nocompression":
		return NoCompression, nil
	case "deflate":
		return Deflate, nil
	case "gzip":
		return Gzip, nil
	}
	return NoCompression, fmt.Errorf("parseCompression: no such "+
		"compression %q", name)
}

// MarshalYAML implements yaml.Marshaler
func (c Compression) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (c *Compression) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}

	parsed, err := ParseCompression(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ChannelOption is a single key/value channel argument passed through
// to the driver unchanged
type ChannelOption struct {
	Key   string      `yaml:"key"`
	Value interface{} `yaml:"value"`
}

// ChannelConfig holds everything a Driver needs to open a session
type ChannelConfig struct {
	Address     string
	Port        int
	Options     []ChannelOption
	Compression Compression

	// Credentials enables TLS on the channel when non-nil
	Credentials *tls.Config

	// AuthKey is sent with every call and requires Credentials
	AuthKey string

	// Timeout and MaxRetryAttempts bound each remote call
	Timeout          time.Duration
	MaxRetryAttempts int
}

// Target returns the host:port the channel connects to
func (c ChannelConfig) Target() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// Validate checks that the ChannelConfig can be used to open a channel
func (c ChannelConfig) Validate() error {
	var errs []error
	if c.Address == "" {
		errs = append(errs, errors.New("address must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout %v must be positive",
			c.Timeout))
	}
	if c.MaxRetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("max retry attempts %d must not "+
			"be negative", c.MaxRetryAttempts))
	}
	if c.AuthKey != "" && c.Credentials == nil {
		errs = append(errs, errors.New("auth key requires credentials"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("validate: invalid channel config: %w", err)
	}
	return nil
}
