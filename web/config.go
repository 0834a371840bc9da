package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/solar3s/ippower/logging"
	"github.com/solar3s/ippower/power"
)

var DefaultConfig = Config{
	CallPath: power.DefaultCallPath,
	Log:      logging.DefaultConfig,
	Web:      DefaultServerConfig,
	Watcher:  power.DefaultWatcherConfig,
}

// Config is the root of config.toml.
type Config struct {
	// CallPath is the ACPI call interface.
	CallPath string `validate:"required"`
	// Simulate drives an in-memory firmware instead of CallPath.
	Simulate bool
	Debug    bool
	// ApplyProfile makes serve apply Profile on startup.
	ApplyProfile bool
	Profile      power.Profile
	Log          logging.Config
	Web          ServerConfig
	Watcher      power.WatcherConfig
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints, then the profile invariants.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return nil
}
