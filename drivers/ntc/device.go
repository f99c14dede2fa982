package ntc

import (
	"math"

	"tinygo.org/x/drivers"

	"thermoblink-go/errcode"
)

// Sampler performs one synchronous ADC conversion and returns the raw count.
type Sampler interface {
	Read() (uint16, error)
}

// Device is a thermistor on one ADC channel.
// It keeps the last sample and conversion so callers can read them after Update.
type Device struct {
	adc  Sampler
	conv *Converter

	raw     uint16
	celsius float64
}

// New creates a Device. The sampler must already be configured.
func New(adc Sampler, cfg Config) *Device {
	return &Device{adc: adc, conv: NewConverter(cfg), celsius: math.NaN()}
}

// Update samples the ADC and converts the reading.
// Read failures come back as errcode.SensorRead; rail samples under
// PolicyReject come back as errcode.SampleOutOfRange with Raw set and the
// stored temperature set to NaN.
func (d *Device) Update(which drivers.Measurement) error {
	if which&drivers.Temperature == 0 {
		return nil
	}
	raw, err := d.adc.Read()
	if err != nil {
		return &errcode.E{C: errcode.SensorRead, Op: "ntc", Err: err}
	}
	d.raw = raw
	d.celsius, err = d.conv.Convert(raw)
	return err
}

// Raw returns the last ADC count.
func (d *Device) Raw() uint16 { return d.raw }

// Celsius returns the last converted temperature.
func (d *Device) Celsius() float64 { return d.celsius }

// Temperature returns the last temperature in milli-°C, the tinygo drivers
// convention. Non-finite readings return math.MinInt32.
func (d *Device) Temperature() int32 {
	c := d.celsius
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return math.MinInt32
	}
	return int32(math.Round(c * 1000))
}

var _ drivers.Sensor = (*Device)(nil)
