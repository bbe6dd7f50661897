// Package config loads the configuration of the lifostack debug tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/lifostack/lifostack/internal/expandenv"
	"github.com/lifostack/lifostack/log"
)

// DefaultConfigPath is the config file used when no path is given.
const DefaultConfigPath = "./lifostack.yaml"

const defaultCapacity = 10

// unsetFill marks a fill the config file left out. It becomes the capacity.
const unsetFill = math.MinInt

// ErrConfigNotSupport is returned for config files of an unknown format.
var ErrConfigNotSupport = errors.New("lifostack/config: not support")

// Config is the configuration of the debug harness.
type Config struct {
	Stack StackConfig `yaml:"stack" toml:"stack" json:"stack"`
	Log   log.Config  `yaml:"log" toml:"log" json:"log"`
	// TraceErrors records a stack trace in every errs.Error created.
	TraceErrors bool `yaml:"trace_errors" toml:"trace_errors" json:"trace_errors"`
}

// StackConfig configures the stack exercised by the harness.
type StackConfig struct {
	// Capacity is the stack capacity, 10 by default.
	Capacity             int   `yaml:"capacity" toml:"capacity" json:"capacity"`
	// Fill is the number of random elements pushed, at most Capacity.
	// Left out of a config file it equals Capacity.
	Fill                 int   `yaml:"fill" toml:"fill" json:"fill"`
	// Seed seeds the random elements. 0 seeds from the clock.
	Seed                 int64 `yaml:"seed" toml:"seed" json:"seed"`
	// Pooled backs the stack with the pooled allocator.
	Pooled               bool  `yaml:"pooled" toml:"pooled" json:"pooled"`
	// SimulateAllocFailure makes slot allocation fail.
	SimulateAllocFailure bool  `yaml:"simulate_alloc_failure" toml:"simulate_alloc_failure" json:"simulate_alloc_failure"`
}

var globalConfig atomic.Value

func init() {
	globalConfig.Store(DefaultConfig())
}

// DefaultConfig returns the config used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Stack: StackConfig{
			Capacity: defaultCapacity,
			Fill:     defaultCapacity,
		},
		Log: log.DefaultConfig(),
	}
}

// GlobalConfig returns the global Config.
func GlobalConfig() *Config {
	return globalConfig.Load().(*Config)
}

// SetGlobalConfig sets the global Config.
func SetGlobalConfig(cfg *Config) {
	globalConfig.Store(cfg)
}

// LoadGlobalConfig loads a Config from path and sets it as the global Config.
func LoadGlobalConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	SetGlobalConfig(cfg)
	return nil
}

// LoadConfig loads a Config from path. A missing file at DefaultConfigPath
// yields the defaults, any other missing file is an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := parseConfigFromFile(path)
	if errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseConfigFromFile(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(buf, path)
}

// Parse decodes data in the format named by the extension of path, with
// ${ENV} references expanded, on top of the defaults.
func Parse(data []byte, path string) (*Config, error) {
	u, ext := unmarshalerFor(path)
	if u == nil {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotSupport, ext)
	}
	cfg := DefaultConfig()
	cfg.Stack.Fill = unsetFill
	cfg.Log = nil
	if err := u.Unmarshal(expandenv.ExpandEnv(data), cfg); err != nil {
		return nil, fmt.Errorf("lifostack/config: parse %s: %w", path, err)
	}
	if cfg.Stack.Fill == unsetFill {
		cfg.Stack.Fill = cfg.Stack.Capacity
	}
	if len(cfg.Log) == 0 {
		cfg.Log = log.DefaultConfig()
	}
	return cfg, nil
}

// Validate reports every problem of the config at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Stack.Capacity <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("stack.capacity must be positive, got %d", c.Stack.Capacity))
	}
	if c.Stack.Fill < 0 || (c.Stack.Capacity > 0 && c.Stack.Fill > c.Stack.Capacity) {
		result = multierror.Append(result,
			fmt.Errorf("stack.fill must be within [0, %d], got %d", c.Stack.Capacity, c.Stack.Fill))
	}
	for i, o := range c.Log {
		switch o.Writer {
		case log.OutputConsole:
		case log.OutputFile:
			if o.WriteConfig.Filename == "" {
				result = multierror.Append(result, fmt.Errorf("log[%d]: file writer requires writer_config.filename", i))
			}
		default:
			result = multierror.Append(result, fmt.Errorf("log[%d]: unknown writer %q", i, o.Writer))
		}
		if _, ok := log.Levels[o.Level]; !ok {
			result = multierror.Append(result, fmt.Errorf("log[%d]: unknown level %q", i, o.Level))
		}
	}
	return result.ErrorOrNil()
}
