package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"pardisplay/core"
	"pardisplay/host/logging"
)

// Backend names
const (
	BackendPPDev = "ppdev"
	BackendUBW   = "ubw"
	BackendGPIO  = "gpio"
)

// Config is the host-side configuration for one attached display
type Config struct {
	// Controller family name (e.g. "SED1335"); selects the protocol when
	// Protocol is empty
	Controller string `toml:"controller"`

	// Protocol overrides the controller's protocol ("busy", "channel", "select")
	Protocol string `toml:"protocol"`

	// Backend is one of "ppdev", "ubw", "gpio"
	Backend string `toml:"backend"`

	Timing TimingConfig `toml:"timing"`
	PPDev  PPDevConfig  `toml:"ppdev"`
	UBW    UBWConfig    `toml:"ubw"`
	GPIO   GPIOConfig   `toml:"gpio"`
	Log    LogConfig    `toml:"log"`
}

type TimingConfig struct {
	SettleDelay   int `toml:"settle_delay"`
	BusyPollLimit int `toml:"busy_poll_limit"`
}

type PPDevConfig struct {
	Device    string `toml:"device"`
	Exclusive *bool  `toml:"exclusive"`
}

type UBWConfig struct {
	Device        string `toml:"device"`
	Baud          int    `toml:"baud"`
	ReadTimeoutMS int    `toml:"read_timeout_ms"`
}

type GPIOConfig struct {
	Data     []string `toml:"data"`
	Strobe   string   `toml:"strobe"`
	AutoFeed string   `toml:"autofeed"`
	Init     string   `toml:"init"`
	Select   string   `toml:"select"`
	Busy     string   `toml:"busy"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads and parses a TOML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML configuration data and applies defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = BackendPPDev
	}

	if cfg.PPDev.Device == "" {
		cfg.PPDev.Device = "/dev/parport0"
	}
	if cfg.PPDev.Exclusive == nil {
		exclusive := true
		cfg.PPDev.Exclusive = &exclusive
	}

	if cfg.UBW.Device == "" {
		cfg.UBW.Device = "/dev/ttyACM0"
	}
	if cfg.UBW.Baud == 0 {
		cfg.UBW.Baud = 115200
	}
	if cfg.UBW.ReadTimeoutMS == 0 {
		cfg.UBW.ReadTimeoutMS = 1000
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Default returns the configuration used without a config file
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate checks that the configuration describes a usable display
func (c *Config) Validate() error {
	if _, err := c.ResolveProtocol(); err != nil {
		return err
	}

	switch c.Backend {
	case BackendPPDev, BackendUBW:
	case BackendGPIO:
		if len(c.GPIO.Data) != 8 {
			return fmt.Errorf("gpio backend needs 8 data pins, got %d", len(c.GPIO.Data))
		}
		if c.GPIO.Strobe == "" || c.GPIO.AutoFeed == "" || c.GPIO.Init == "" || c.GPIO.Select == "" {
			return errors.New("gpio backend needs strobe, autofeed, init and select pins")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.Timing.SettleDelay < 0 {
		return errors.New("settle_delay cannot be negative")
	}
	if c.Timing.BusyPollLimit < 0 {
		return errors.New("busy_poll_limit cannot be negative")
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// ResolveProtocol returns the explicit protocol, or the controller's
func (c *Config) ResolveProtocol() (core.Protocol, error) {
	if c.Protocol != "" {
		return core.ParseProtocol(c.Protocol)
	}
	if c.Controller == "" {
		return 0, errors.New("either controller or protocol must be set")
	}
	ctrl, err := core.LookupController(c.Controller)
	if err != nil {
		return 0, err
	}
	return ctrl.Protocol, nil
}

// CoreTiming converts the timing section for the protocol writers
func (c *Config) CoreTiming() core.Timing {
	return core.Timing{
		SettleDelay:   c.Timing.SettleDelay,
		BusyPollLimit: c.Timing.BusyPollLimit,
	}
}
