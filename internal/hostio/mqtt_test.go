package hostio

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermoblink-go/errcode"
	"thermoblink-go/services/control"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// pendingToken completes when finish is called.
type pendingToken struct {
	done chan struct{}
	err  error
}

func newPendingToken() *pendingToken { return &pendingToken{done: make(chan struct{})} }

func (t *pendingToken) finish(err error) {
	t.err = err
	close(t.done)
}

func (t *pendingToken) Wait() bool {
	<-t.done
	return true
}

func (t *pendingToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *pendingToken) Error() error          { return t.err }
func (t *pendingToken) Done() <-chan struct{} { return t.done }

type published struct {
	topic    string
	retained bool
	payload  []byte
}

type fakeClient struct {
	msgs   []published
	err    error
	tokens []mqtt.Token // handed out in order before falling back to doneToken
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.msgs = append(c.msgs, published{topic: topic, retained: retained, payload: payload.([]byte)})
	if len(c.tokens) > 0 {
		tok := c.tokens[0]
		c.tokens = c.tokens[1:]
		return tok
	}
	return doneToken{err: c.err}
}

func quietLogger() (*logrus.Entry, *test.Hook) {
	l, hook := test.NewNullLogger()
	return logrus.NewEntry(l), hook
}

func TestMQTTSink_ObservePublishesReading(t *testing.T) {
	c := &fakeClient{}
	log, _ := quietLogger()
	s := NewMQTTSink(c, "lab/thermo", log)

	s.Observe(control.Reading{Raw: 2730, Celsius: 10.18, DelayMs: 1000, TSms: 1_700_000_000_000})

	require.Len(t, c.msgs, 1)
	assert.Equal(t, "lab/thermo/reading", c.msgs[0].topic)
	assert.True(t, c.msgs[0].retained)

	var got map[string]any
	require.NoError(t, json.Unmarshal(c.msgs[0].payload, &got))
	assert.Equal(t, float64(2730), got["raw"])
	assert.Equal(t, 10.18, got["celsius"])
	assert.Equal(t, float64(1000), got["delay_ms"])
	assert.NotContains(t, got, "fault")
}

func TestMQTTSink_FaultReadingOmitsCelsius(t *testing.T) {
	c := &fakeClient{}
	log, _ := quietLogger()
	s := NewMQTTSink(c, "t", log)

	s.Observe(control.Reading{
		Raw:     0,
		Celsius: math.NaN(),
		DelayMs: 500,
		Fault:   &errcode.E{C: errcode.SampleOutOfRange},
	})

	var got map[string]any
	require.NoError(t, json.Unmarshal(c.msgs[0].payload, &got))
	assert.NotContains(t, got, "celsius")
	assert.Equal(t, "sample_out_of_range", got["fault"])
}

func TestMQTTSink_WriteCopiesLine(t *testing.T) {
	c := &fakeClient{}
	log, _ := quietLogger()
	s := NewMQTTSink(c, "t", log)

	buf := []byte("Temperature 10.18 Celcius\r\n")
	n, err := s.Write(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	copy(buf, "XXXX")

	require.Len(t, c.msgs, 1)
	assert.Equal(t, "t/report", c.msgs[0].topic)
	assert.False(t, c.msgs[0].retained)
	assert.Equal(t, "Temperature 10.18 Celcius\r\n", string(c.msgs[0].payload))
}

func TestMQTTSink_LogsFailedPublish(t *testing.T) {
	c := &fakeClient{err: errors.New("not connected")}
	log, hook := quietLogger()
	s := NewMQTTSink(c, "t", log)

	_, _ = s.Write([]byte("a\r\n"))
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "t/report", hook.LastEntry().Data["publish_topic"])

	s.Observe(control.Reading{Raw: 2730, Celsius: 10.18, DelayMs: 1000})
	assert.Len(t, hook.AllEntries(), 2)
}

func TestMQTTSink_LogsFailureOfInFlightPublish(t *testing.T) {
	report := newPendingToken()
	c := &fakeClient{tokens: []mqtt.Token{report}}
	log, hook := quietLogger()
	s := NewMQTTSink(c, "t", log)

	// the report is still in flight when the reading is published
	_, _ = s.Write([]byte("Temperature 10.18 Celcius\r\n"))
	s.Observe(control.Reading{Raw: 2730, Celsius: 10.18, DelayMs: 1000})
	assert.Empty(t, hook.AllEntries())

	report.finish(errors.New("connection lost"))
	require.Eventually(t, func() bool { return len(hook.AllEntries()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "t/report", hook.LastEntry().Data["publish_topic"])
	assert.EqualError(t, hook.LastEntry().Data[logrus.ErrorKey].(error), "connection lost")
}
