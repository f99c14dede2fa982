package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	assert.Equal(t, OK, Of(nil))
	assert.Equal(t, SensorRead, Of(SensorRead))
	assert.Equal(t, SampleOutOfRange, Of(&E{C: SampleOutOfRange, Raw: 0}))
	assert.Equal(t, Timeout, Of(fmt.Errorf("wrapped: %w", &E{C: Timeout})))
	assert.Equal(t, Error, Of(errors.New("boom")))
}

func TestE_ErrorAndIs(t *testing.T) {
	cause := errors.New("adc busy")
	e := &E{C: SensorRead, Op: "sample", Err: cause}

	assert.Equal(t, "sample: sensor_read: adc busy", e.Error())
	assert.ErrorIs(t, e, SensorRead)
	assert.ErrorIs(t, e, cause)
	assert.NotErrorIs(t, e, SampleOutOfRange)
}
