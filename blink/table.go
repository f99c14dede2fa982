// Package blink maps a temperature onto an LED high-pulse length.
// Colder readings blink slower.
package blink

import (
	"math"

	"thermoblink-go/errcode"
)

// Fallback is used when no step matches, which only happens for NaN.
const Fallback uint32 = 500

// Step applies to temperatures t >= Min.
type Step struct {
	Min     float64 // °C, inclusive
	DelayMs uint32
}

// Table is scanned first-match-wins, so steps must be ordered by
// descending Min. The last step normally has Min = -Inf.
type Table []Step

// Default is the stock step table.
var Default = Table{
	{Min: 60, DelayMs: 50},
	{Min: 40, DelayMs: 100},
	{Min: 30, DelayMs: 250},
	{Min: 20, DelayMs: 500},
	{Min: 10, DelayMs: 1000},
	{Min: 0, DelayMs: 2000},
	{Min: -10, DelayMs: 3000},
	{Min: -20, DelayMs: 4000},
	{Min: math.Inf(-1), DelayMs: 5000},
}

// Delay returns the delay for t from the default table.
func Delay(t float64) uint32 { return Default.Delay(t) }

func (tb Table) Delay(t float64) uint32 {
	for _, s := range tb {
		if t >= s.Min {
			return s.DelayMs
		}
	}
	return Fallback
}

// Validate checks that bounds are strictly descending and no delay is zero.
func (tb Table) Validate() error {
	if len(tb) == 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "blink", Msg: "empty table"}
	}
	for i, s := range tb {
		if math.IsNaN(s.Min) {
			return &errcode.E{C: errcode.InvalidParams, Op: "blink", Msg: "NaN bound"}
		}
		if s.DelayMs == 0 {
			return &errcode.E{C: errcode.InvalidParams, Op: "blink", Msg: "zero delay"}
		}
		if i > 0 && !(s.Min < tb[i-1].Min) {
			return &errcode.E{C: errcode.InvalidParams, Op: "blink", Msg: "bounds not descending"}
		}
	}
	return nil
}
