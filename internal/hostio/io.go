// Package hostio provides PC-side collaborators for the control loop: an ADC
// bridge on a serial port, MQTT telemetry, a cancellable clock and a
// logging LED.
package hostio

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"thermoblink-go/x/timex"
)

// CtxClock sleeps like time.Sleep but returns early once Ctx is done, so a
// cancelled loop finishes its current iteration without waiting it out.
type CtxClock struct {
	Ctx context.Context
}

func (c CtxClock) DelayMs(ms uint32) {
	t := time.NewTimer(timex.Ms(ms))
	defer t.Stop()
	select {
	case <-c.Ctx.Done():
	case <-t.C:
	}
}

// LogLED stands in for the LED line and logs each transition.
type LogLED struct {
	log   *logrus.Entry
	level bool
}

func NewLogLED(log *logrus.Entry, pin int) *LogLED {
	return &LogLED{log: log.WithFields(logrus.Fields{"component": "led", "pin": pin})}
}

func (l *LogLED) Set(level bool) {
	if level == l.level {
		return
	}
	l.level = level
	l.log.WithField("level", level).Debug("led")
}

func (l *LogLED) Level() bool { return l.level }
