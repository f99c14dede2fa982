package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"thermoblink-go/blink"
	"thermoblink-go/drivers/ntc"
	"thermoblink-go/services/control"
)

// Config is the host runner configuration.
type Config struct {
	Sampler SamplerConfig `yaml:"sampler"`
	NTC     NTCConfig     `yaml:"ntc"`
	Loop    LoopConfig    `yaml:"loop"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Log     LogConfig     `yaml:"log"`
	LEDPin  int           `yaml:"led_pin"`
}

// SamplerConfig selects where raw ADC counts come from.
type SamplerConfig struct {
	Kind     string   `yaml:"kind"` // "sim" or "serial"
	Port     string   `yaml:"port"`
	Baud     int      `yaml:"baud"`
	Sequence []uint16 `yaml:"sequence"` // sim only
}

// NTCConfig contains conversion parameters.
type NTCConfig struct {
	Policy          string  `yaml:"policy"` // reject, clamp, propagate
	Beta            float64 `yaml:"beta"`
	SinglePrecision bool    `yaml:"single_precision"`
}

// LoopConfig contains control loop timing.
type LoopConfig struct {
	PeriodMs      uint32 `yaml:"period_ms"`
	SampleRetries uint8  `yaml:"sample_retries"`
}

// MQTTConfig enables telemetry when Broker is set.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration that runs the simulator with stock timing.
func Default() *Config {
	return &Config{
		Sampler: SamplerConfig{
			Kind: "sim",
			Port: "/dev/ttyACM0",
			Baud: 115200,
		},
		NTC: NTCConfig{
			Policy: "reject",
			Beta:   ntc.Beta,
		},
		Loop: LoopConfig{
			PeriodMs: control.DefaultPeriodMs,
		},
		MQTT: MQTTConfig{
			Topic:    "thermoblink",
			ClientID: "thermoblink-host",
		},
		Log:    LogConfig{Level: "info"},
		LEDPin: 25,
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults;
// fields absent from the file keep their default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ensureDefaults() {
	d := Default()
	if c.Sampler.Kind == "" {
		c.Sampler.Kind = d.Sampler.Kind
	}
	if c.Sampler.Baud == 0 {
		c.Sampler.Baud = d.Sampler.Baud
	}
	if c.NTC.Beta == 0 {
		c.NTC.Beta = d.NTC.Beta
	}
	if c.Loop.PeriodMs == 0 {
		c.Loop.PeriodMs = d.Loop.PeriodMs
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = d.MQTT.Topic
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = d.MQTT.ClientID
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Sampler.Kind {
	case "sim":
	case "serial":
		if c.Sampler.Port == "" {
			return fmt.Errorf("sampler: serial kind requires a port")
		}
	default:
		return fmt.Errorf("sampler: unknown kind %q", c.Sampler.Kind)
	}
	if _, err := ntc.ParsePolicy(c.NTC.Policy); err != nil {
		return fmt.Errorf("ntc: %w", err)
	}
	return nil
}

// Control converts the file configuration into a control loop configuration.
func (c *Config) Control() (control.Config, error) {
	pol, err := ntc.ParsePolicy(c.NTC.Policy)
	if err != nil {
		return control.Config{}, err
	}
	n := ntc.DefaultConfig()
	n.Beta = c.NTC.Beta
	n.Policy = pol
	n.SinglePrecision = c.NTC.SinglePrecision
	return control.Config{
		NTC:           n,
		Table:         blink.Default,
		PeriodMs:      c.Loop.PeriodMs,
		SampleRetries: c.Loop.SampleRetries,
	}, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
