package bootstrap

import (
	"time"

	"github.com/kbukum/wirekit/config"
	"github.com/kbukum/wirekit/di"
	"github.com/kbukum/wirekit/inspect"
	"github.com/kbukum/wirekit/validation"
)

// AppConfig is the constraint for application configuration types. Any
// struct embedding bootstrap.Config satisfies it via promoted methods.
//
// Example:
//
//	type MyConfig struct {
//	    bootstrap.Config `yaml:",inline" mapstructure:",squash"`
//	    Shop ShopConfig `yaml:"shop" mapstructure:"shop"`
//	}
//
//	app, err := bootstrap.NewApp[*MyConfig](&cfg)
type AppConfig interface {
	GetServiceConfig() *config.ServiceConfig
	GetBootstrapConfig() *Config
	ApplyDefaults()
	Validate() error
}

// ContainerConfig selects how the container is wired.
type ContainerConfig struct {
	// Strategy is "scan" or "eager".
	Strategy string `yaml:"strategy" mapstructure:"strategy" validate:"required,oneof=scan eager"`
	// Namespaces to scan, in order. Required for the scan strategy.
	Namespaces []string `yaml:"namespaces" mapstructure:"namespaces" validate:"dive,required"`
	// Diagnostics logs every diagnostic at info level instead of debug.
	Diagnostics bool `yaml:"diagnostics" mapstructure:"diagnostics"`
}

// TelemetryConfig configures OTLP export of wiring spans and metrics.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval" validate:"gte=0"`
}

// Config is the configuration of a wirekit application.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Container ContainerConfig `yaml:"container" mapstructure:"container"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Inspect   inspect.Config  `yaml:"inspect" mapstructure:"inspect"`
}

// GetBootstrapConfig returns c. It is promoted to embedding structs.
func (c *Config) GetBootstrapConfig() *Config { return c }

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Inspect.ApplyDefaults()
	if c.Container.Strategy == "" {
		c.Container.Strategy = di.StrategyScan.String()
	}
	if c.Telemetry.Endpoint == "" && c.Telemetry.Enabled {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Telemetry.MetricInterval == 0 {
		c.Telemetry.MetricInterval = 15 * time.Second
	}
}

// Validate checks struct tags and the rules that span fields.
func (c *Config) Validate() error {
	v := validation.New().Merge(validation.Validate(c))
	v.Custom(c.Container.Strategy != di.StrategyScan.String() || len(c.Container.Namespaces) > 0,
		"container.namespaces", "at least one namespace is required for the scan strategy")
	v.Custom(!c.Telemetry.Enabled || c.Telemetry.Endpoint != "",
		"telemetry.endpoint", "is required when telemetry is enabled")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
