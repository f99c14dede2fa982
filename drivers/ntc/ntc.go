// Package ntc converts raw ADC counts from an NTC thermistor voltage divider
// into degrees Celsius using the Beta-parameter model:
//
//	R/R0 ≈ 1 / (VMax/sample - 1)
//	1/T  = ln(R/R0)/B + 1/T0
//
// The divider is assumed to use a series resistor equal to the thermistor's
// nominal (25 °C) resistance, so no resistor values appear in the maths.
//
// Device wraps a Sampler and a Converter and satisfies tinygo.org/x/drivers
// Sensor so it can sit next to other TinyGo sensor drivers.
package ntc

import (
	"math"

	"github.com/chewxy/math32"

	"thermoblink-go/errcode"
	"thermoblink-go/x/mathx"
)

// Model constants for a 10k B3950 thermistor read by a 12-bit ADC.
const (
	VMax         = 4095
	Beta         = 3950.0
	T0           = 298.15 // K, 25 °C
	KelvinOffset = 273.15
)

// Policy selects how samples at the rails (0 or VMax) are handled.
// At the rails the divider ratio is 0 or infinite and the model has no
// meaningful answer.
type Policy uint8

const (
	// PolicyReject fails the conversion with errcode.SampleOutOfRange.
	PolicyReject Policy = iota
	// PolicyClamp pulls the sample into [1, VMax-1] before converting.
	PolicyClamp
	// PolicyPropagate applies the formula unguarded; IEEE arithmetic turns
	// both rails into -273.15 °C.
	PolicyPropagate
)

func (p Policy) String() string {
	switch p {
	case PolicyReject:
		return "reject"
	case PolicyClamp:
		return "clamp"
	case PolicyPropagate:
		return "propagate"
	}
	return "unknown"
}

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "reject":
		return PolicyReject, nil
	case "clamp":
		return PolicyClamp, nil
	case "propagate":
		return PolicyPropagate, nil
	}
	return 0, &errcode.E{C: errcode.InvalidParams, Op: "ntc", Msg: "unknown policy " + s}
}

// Config controls the conversion. Zero fields take the package defaults.
type Config struct {
	VMax   uint16
	Beta   float64
	T0     float64 // reference temperature in K
	Policy Policy
	// SinglePrecision evaluates the model in float32, for cores without a
	// double-precision FPU.
	SinglePrecision bool
}

func DefaultConfig() Config {
	return Config{VMax: VMax, Beta: Beta, T0: T0, Policy: PolicyReject}
}

// Celsius applies the model with the package constants and no guarding.
// sample is expected to lie strictly inside (0, VMax).
func Celsius(sample float64) float64 {
	return celsius(sample, VMax, Beta, T0)
}

// Celsius32 is Celsius evaluated in single precision.
func Celsius32(sample float32) float32 {
	return celsius32(sample, VMax, Beta, T0)
}

func celsius(sample, vmax, b, t0 float64) float64 {
	ratio := 1.0 / ((vmax / sample) - 1.0)
	k := 1.0 / (math.Log(ratio)/b + 1.0/t0)
	return k - KelvinOffset
}

func celsius32(sample, vmax, b, t0 float32) float32 {
	ratio := 1.0 / ((vmax / sample) - 1.0)
	k := 1.0 / (math32.Log(ratio)/b + 1.0/t0)
	return k - KelvinOffset
}

// Converter turns raw counts into °C according to its Config.
type Converter struct {
	cfg Config
}

func NewConverter(cfg Config) *Converter {
	if cfg.VMax == 0 {
		cfg.VMax = VMax
	}
	if cfg.Beta == 0 {
		cfg.Beta = Beta
	}
	if cfg.T0 == 0 {
		cfg.T0 = T0
	}
	return &Converter{cfg: cfg}
}

func (c *Converter) Config() Config { return c.cfg }

// InRange reports whether raw is strictly between the rails.
func (c *Converter) InRange(raw uint16) bool {
	return mathx.Between(raw, 1, c.cfg.VMax-1)
}

// Convert maps a raw count to °C. Only PolicyReject returns an error.
func (c *Converter) Convert(raw uint16) (float64, error) {
	if !c.InRange(raw) {
		switch c.cfg.Policy {
		case PolicyClamp:
			raw = mathx.Clamp(raw, 1, c.cfg.VMax-1)
		case PolicyPropagate:
		default:
			return math.NaN(), &errcode.E{C: errcode.SampleOutOfRange, Op: "ntc", Raw: raw}
		}
	}
	if c.cfg.SinglePrecision {
		return float64(celsius32(float32(raw), float32(c.cfg.VMax), float32(c.cfg.Beta), float32(c.cfg.T0))), nil
	}
	return celsius(float64(raw), float64(c.cfg.VMax), c.cfg.Beta, c.cfg.T0), nil
}
