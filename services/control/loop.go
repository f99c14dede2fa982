// Package control runs the sense → convert → report → blink cycle.
//
// One iteration:
//
//	sample ADC → °C → "Temperature %.2f Celcius\r\n" → LED high
//	→ wait blink delay → LED low → wait period
//
// The loop is single-threaded and owns every collaborator it is given.
// Nothing on the hot path allocates.
package control

import (
	"context"

	"tinygo.org/x/drivers"

	"thermoblink-go/blink"
	"thermoblink-go/drivers/ntc"
	"thermoblink-go/errcode"
	"thermoblink-go/x/timex"
)

// DefaultPeriodMs is the fixed low time between the LED pulse and the next sample.
const DefaultPeriodMs uint32 = 500

// Sampler performs one blocking ADC conversion.
type Sampler = ntc.Sampler

// DigitalOutput drives the LED line.
type DigitalOutput interface {
	Set(level bool)
}

// TextSink receives complete report lines (CRLF included).
type TextSink interface {
	Write(p []byte) (int, error)
}

// Clock blocks for a number of milliseconds.
type Clock interface {
	DelayMs(ms uint32)
}

// Observer is told about every completed reading.
// Implementations must not block the loop.
type Observer interface {
	Observe(r Reading)
}

// Reading is the outcome of one iteration.
type Reading struct {
	Raw     uint16
	Celsius float64 // NaN when Fault is set
	DelayMs uint32
	Fault   error // non-fatal conversion fault (sample at a rail)
	TSms    int64
}

type Config struct {
	NTC   ntc.Config
	Table blink.Table // nil => blink.Default
	// PeriodMs is the LED-off wait after each pulse. 0 => DefaultPeriodMs.
	PeriodMs uint32
	// SampleRetries is the number of extra ADC attempts before a read
	// failure becomes fatal. 0 keeps abort-on-first-failure.
	SampleRetries uint8
}

type Loop struct {
	sensor  *ntc.Device
	led     DigitalOutput
	console TextSink
	clock   Clock
	obs     Observer

	table   blink.Table
	period  uint32
	retries uint8

	line [64]byte
}

// New wires a loop. All collaborators are required.
func New(cfg Config, adc Sampler, led DigitalOutput, console TextSink, clock Clock) (*Loop, error) {
	if adc == nil || led == nil || console == nil || clock == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "control", Msg: "missing collaborator"}
	}
	if cfg.Table == nil {
		cfg.Table = blink.Default
	}
	if err := cfg.Table.Validate(); err != nil {
		return nil, err
	}
	if cfg.PeriodMs == 0 {
		cfg.PeriodMs = DefaultPeriodMs
	}
	return &Loop{
		sensor:  ntc.New(adc, cfg.NTC),
		led:     led,
		console: console,
		clock:   clock,
		table:   cfg.Table,
		period:  cfg.PeriodMs,
		retries: cfg.SampleRetries,
	}, nil
}

// SetObserver installs an optional reading observer. Call before Run.
func (l *Loop) SetObserver(o Observer) { l.obs = o }

// Run repeats Step until ctx is cancelled (returns nil) or the sensor
// cannot be read (returns the errcode.SensorRead error).
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := l.Step(); err != nil {
			return err
		}
	}
}

// Step runs exactly one iteration. The only error it returns is a fatal
// sensor read failure, in which case the LED is left untouched.
func (l *Loop) Step() (Reading, error) {
	fault, err := l.sample()
	if err != nil {
		return Reading{}, err
	}
	r := Reading{
		Raw:     l.sensor.Raw(),
		Celsius: l.sensor.Celsius(),
		Fault:   fault,
		TSms:    timex.NowMs(),
	}

	var line []byte
	if fault != nil {
		line = AppendFault(l.line[:0], r.Raw)
		r.DelayMs = blink.Fallback
	} else {
		line = AppendReport(l.line[:0], r.Celsius)
		r.DelayMs = l.table.Delay(r.Celsius)
	}
	if _, err := l.console.Write(line); err != nil {
		println("Warn: console write failed:", err.Error())
	}

	if l.obs != nil {
		l.obs.Observe(r)
	}

	l.led.Set(true)
	l.clock.DelayMs(r.DelayMs)
	l.led.Set(false)
	l.clock.DelayMs(l.period)
	return r, nil
}

// sample updates the sensor, retrying read failures up to l.retries times.
// A rail sample comes back as a non-fatal fault; a read failure that
// survives every attempt is fatal.
func (l *Loop) sample() (fault error, fatal error) {
	for attempt := uint8(0); ; attempt++ {
		err := l.sensor.Update(drivers.Temperature)
		switch errcode.Of(err) {
		case errcode.OK:
			return nil, nil
		case errcode.SensorRead:
			if attempt >= l.retries {
				return nil, err
			}
			println("Warn: ntc read failed, retrying:", err.Error())
		default:
			return err, nil
		}
	}
}
