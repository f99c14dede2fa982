//go:build !rp2040

package platform

import (
	"os"
	"time"

	"thermoblink-go/internal/platform/boards"
	"thermoblink-go/x/timex"
)

// SimSequence is replayed by the simulated ADC: a slow sweep from warm to
// cold across every blink step.
var SimSequence = []uint16{200, 500, 1000, 1365, 2048, 2730, 3000, 3500, 3900, 4050}

// SimADC replays a fixed sequence of raw counts, wrapping at the end.
type SimADC struct {
	Seq []uint16
	i   int
}

func (s *SimADC) Read() (uint16, error) {
	if len(s.Seq) == 0 {
		return 0, nil
	}
	v := s.Seq[s.i%len(s.Seq)]
	s.i++
	return v, nil
}

// LogLED prints level transitions.
type LogLED struct {
	Pin   int
	level bool
}

func (l *LogLED) Set(level bool) {
	if level == l.level {
		return
	}
	l.level = level
	if level {
		println("[led] gpio", l.Pin, "high")
	} else {
		println("[led] gpio", l.Pin, "low")
	}
}

func (l *LogLED) Level() bool { return l.level }

type SleepClock struct{}

func (SleepClock) DelayMs(ms uint32) { time.Sleep(timex.Ms(ms)) }

func Setup(b boards.Board) (Resources, error) {
	return Resources{
		Board:   b,
		ADC:     &SimADC{Seq: SimSequence},
		LED:     &LogLED{Pin: b.LEDPin},
		Console: os.Stdout,
		Clock:   SleepClock{},
	}, nil
}
