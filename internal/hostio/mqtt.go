package hostio

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"thermoblink-go/errcode"
	"thermoblink-go/services/control"
)

// Publisher is the slice of mqtt.Client used here.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// ReadingPayload is the JSON form of a control.Reading.
// Celsius is omitted when the reading has no finite temperature.
type ReadingPayload struct {
	Raw     uint16    `json:"raw"`
	Celsius *float64  `json:"celsius,omitempty"`
	DelayMs uint32    `json:"delay_ms"`
	Fault   string    `json:"fault,omitempty"`
	Time    time.Time `json:"time"`
}

func NewReadingPayload(r control.Reading) ReadingPayload {
	p := ReadingPayload{
		Raw:     r.Raw,
		DelayMs: r.DelayMs,
		Time:    time.UnixMilli(r.TSms).UTC(),
	}
	if !math.IsNaN(r.Celsius) && !math.IsInf(r.Celsius, 0) {
		c := r.Celsius
		p.Celsius = &c
	}
	if r.Fault != nil {
		p.Fault = string(errcode.Of(r.Fault))
	}
	return p
}

// MQTTSink publishes readings to <topic>/reading (retained) and report
// lines to <topic>/report. It never waits on the broker; every publish
// token is watched and a failure is logged once the token completes.
type MQTTSink struct {
	client Publisher
	topic  string
	log    *logrus.Entry
}

func NewMQTTSink(client Publisher, topic string, log *logrus.Entry) *MQTTSink {
	return &MQTTSink{
		client: client,
		topic:  topic,
		log:    log.WithFields(logrus.Fields{"component": "mqtt", "topic": topic}),
	}
}

// Connect dials broker and returns a connected client.
func Connect(broker, clientID string, timeout time.Duration) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout)
	c := mqtt.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, errcode.Timeout)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	return c, nil
}

func (s *MQTTSink) Observe(r control.Reading) {
	payload, err := json.Marshal(NewReadingPayload(r))
	if err != nil {
		s.log.WithError(err).Error("failed to marshal reading")
		return
	}
	s.publish(s.topic+"/reading", true, payload)
}

// Write mirrors one report line. p is copied; the loop reuses its buffer.
func (s *MQTTSink) Write(p []byte) (int, error) {
	s.publish(s.topic+"/report", false, append([]byte(nil), p...))
	return len(p), nil
}

func (s *MQTTSink) publish(topic string, retained bool, payload []byte) {
	tok := s.client.Publish(topic, 0, retained, payload)
	select {
	case <-tok.Done():
		s.report(topic, tok)
	default:
		go func() {
			<-tok.Done()
			s.report(topic, tok)
		}()
	}
}

func (s *MQTTSink) report(topic string, tok mqtt.Token) {
	if err := tok.Error(); err != nil {
		s.log.WithError(err).WithField("publish_topic", topic).Warn("publish failed")
	}
}
