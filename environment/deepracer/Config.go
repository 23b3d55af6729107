package deepracer

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samuelfneumann/deepracerenv/ude"
	"gopkg.in/yaml.v3"
)

// Config is the serializable form of the connection to a remote
// DeepRacer environment. Config files are YAML:
//
//	address: localhost
//	port: 8080
//	compression: deflate
//	timeout: 15s
//	maxRetryAttempts: 3
//	certificateFile: /etc/deepracer/root.pem
type Config struct {
	Address          string              `yaml:"address"`
	Port             int                 `yaml:"port"`
	Options          []ude.ChannelOption `yaml:"options,omitempty"`
	Compression      ude.Compression     `yaml:"compression"`
	AuthKey          string              `yaml:"authKey,omitempty"`
	CertificateFile  string              `yaml:"certificateFile,omitempty"`
	Timeout          time.Duration       `yaml:"timeout"`
	MaxRetryAttempts int                 `yaml:"maxRetryAttempts"`
	Driver           string              `yaml:"driver"`
	ConfigClient     string              `yaml:"configClient"`
}

// DefaultConfig returns a Config holding the default connection
// parameters and no address
func DefaultConfig() Config {
	opts := DefaultOptions()
	return Config{
		Port:             opts.Port,
		Compression:      opts.Compression,
		Timeout:          opts.Timeout,
		MaxRetryAttempts: opts.MaxRetryAttempts,
		Driver:           opts.DriverName,
		ConfigClient:     opts.ConfigClientName,
	}
}

// ParseConfig parses a YAML Config. Keys missing from data keep their
// default values.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parseConfig: could not decode "+
			"config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads and parses the YAML Config file at path
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not read config: %w",
			err)
	}

	c, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v: %w", path, err)
	}
	return c, nil
}

// Validate checks that a DeepRacerEnv could be created from the Config
func (c Config) Validate() error {
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
	if c.AuthKey != "" && c.CertificateFile == "" {
		errs = append(errs, errors.New("auth key requires a certificate "+
			"file"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("validate: invalid config: %w", err)
	}
	return nil
}

// Apply copies the connection parameters of the Config into o. The
// certificate file is not read; use NewFromConfig to connect with TLS.
func (c Config) Apply(o *Options) {
	o.Port = c.Port
	o.ChannelOptions = c.Options
	o.Compression = c.Compression
	o.AuthKey = c.AuthKey
	o.Timeout = c.Timeout
	o.MaxRetryAttempts = c.MaxRetryAttempts

	if c.Driver != "" {
		o.DriverName = c.Driver
	}
	if c.ConfigClient != "" {
		o.ConfigClientName = c.ConfigClient
	}
}

// NewFromConfig creates a DeepRacerEnv from a Config, loading TLS
// credentials from the certificate file if one is set. Options in
// optFns are applied after the Config.
func NewFromConfig(c Config, optFns ...func(o *Options)) (*DeepRacerEnv,
	error) {
	fns := []func(o *Options){c.Apply}

	if c.CertificateFile != "" {
		creds, err := ude.LoadCredentialsFile(c.CertificateFile)
		if err != nil {
			return nil, fmt.Errorf("newFromConfig: %w", err)
		}
		fns = append(fns, func(o *Options) { o.Credentials = creds })
	}

	return New(c.Address, append(fns, optFns...)...)
}
