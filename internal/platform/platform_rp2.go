//go:build rp2040

package platform

import (
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"thermoblink-go/errcode"
	"thermoblink-go/internal/platform/boards"
	"thermoblink-go/x/timex"
)

// rp2ADC reads one channel. machine.ADC.Get returns a 16-bit left-aligned
// value whatever the hardware resolution, so it is shifted back down.
type rp2ADC struct {
	adc   machine.ADC
	shift uint8
}

func (a *rp2ADC) Read() (uint16, error) { return a.adc.Get() >> a.shift, nil }

type rp2LED struct{ p machine.Pin }

func (l rp2LED) Set(level bool) { l.p.Set(level) }

type sleepClock struct{}

func (sleepClock) DelayMs(ms uint32) { time.Sleep(timex.Ms(ms)) }

func Setup(b boards.Board) (Resources, error) {
	if b.ADCPin < 26 || b.ADCPin > 29 {
		return Resources{}, &errcode.E{C: errcode.UnknownPin, Op: "platform", Msg: "adc pin"}
	}
	if b.ADCBits == 0 || b.ADCBits > 16 {
		return Resources{}, &errcode.E{C: errcode.InvalidParams, Op: "platform", Msg: "adc bits"}
	}

	machine.InitADC()
	adcPin := machine.Pin(b.ADCPin)
	adcPin.Configure(machine.PinConfig{Mode: machine.PinAnalog})
	adc := machine.ADC{Pin: adcPin}
	if err := adc.Configure(machine.ADCConfig{Resolution: uint32(b.ADCBits)}); err != nil {
		return Resources{}, &errcode.E{C: errcode.SensorRead, Op: "platform", Err: err}
	}

	led := machine.Pin(b.LEDPin)
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.Low()

	// Defaults inside uartx apply if zero.
	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: b.Baud,
		TX:       machine.Pin(b.UARTTX),
		RX:       machine.Pin(b.UARTRX),
	})

	return Resources{
		Board:   b,
		ADC:     &rp2ADC{adc: adc, shift: 16 - b.ADCBits},
		LED:     rp2LED{p: led},
		Console: u,
		Clock:   sleepClock{},
	}, nil
}
