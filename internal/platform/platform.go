// Package platform builds the concrete collaborators for the control loop.
// The rp2040 build talks to hardware; every other build simulates it.
package platform

import (
	"thermoblink-go/internal/platform/boards"
	"thermoblink-go/services/control"
)

// Resources are owned by exactly one control loop.
type Resources struct {
	Board   boards.Board
	ADC     control.Sampler
	LED     control.DigitalOutput
	Console control.TextSink
	Clock   control.Clock
}
