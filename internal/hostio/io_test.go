package hostio

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxClock_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	CtxClock{Ctx: ctx}.DelayMs(5000)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCtxClock_Sleeps(t *testing.T) {
	start := time.Now()
	CtxClock{Ctx: context.Background()}.DelayMs(20)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLogLED_LogsTransitionsOnly(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	led := NewLogLED(logrus.NewEntry(l), 25)

	led.Set(false) // already low
	led.Set(true)
	led.Set(true)
	led.Set(false)

	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, true, hook.AllEntries()[0].Data["level"])
	assert.Equal(t, 25, hook.AllEntries()[0].Data["pin"])
	assert.False(t, led.Level())
}
