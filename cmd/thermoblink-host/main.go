// Command thermoblink-host runs the thermistor blink loop on a PC, sampling
// either a simulated ADC or an ADC bridge board on a serial port.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"thermoblink-go/errcode"
	"thermoblink-go/internal/config"
	"thermoblink-go/internal/hostio"
	"thermoblink-go/internal/platform"
	"thermoblink-go/services/control"
)

const mqttConnectTimeout = 5 * time.Second

func main() {
	cfgPath := flag.String("config", "thermoblink.yaml", "path to YAML config")
	writeDefault := flag.Bool("write-default", false, "write the default config to -config and exit")
	flag.Parse()

	log := logrus.NewEntry(logrus.StandardLogger())

	if *writeDefault {
		if err := config.Default().Save(*cfgPath); err != nil {
			log.WithError(err).Fatal("failed to write default config")
		}
		log.WithField("path", *cfgPath).Info("default config written")
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(lvl)
	} else {
		log.WithError(err).Warn("unknown log level, keeping info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithFields(logrus.Fields{"code": errcode.Of(err)}).WithError(err).Error("stopped")
		os.Exit(1)
	}
	log.Info("stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Entry) error {
	cc, err := cfg.Control()
	if err != nil {
		return err
	}

	var adc control.Sampler
	switch cfg.Sampler.Kind {
	case "serial":
		s, closer, err := hostio.OpenSerial(cfg.Sampler.Port, cfg.Sampler.Baud)
		if err != nil {
			return err
		}
		defer closer.Close()
		adc = s
	default:
		seq := cfg.Sampler.Sequence
		if len(seq) == 0 {
			seq = platform.SimSequence
		}
		adc = &platform.SimADC{Seq: seq}
	}

	var console io.Writer = os.Stdout
	obs := readingLogger{log: log}
	if cfg.MQTT.Broker != "" {
		client, err := hostio.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID, mqttConnectTimeout)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)
		sink := hostio.NewMQTTSink(client, cfg.MQTT.Topic, log)
		console = io.MultiWriter(os.Stdout, sink)
		obs.next = sink
	}

	loop, err := control.New(cc, adc, hostio.NewLogLED(log, cfg.LEDPin), console, hostio.CtxClock{Ctx: ctx})
	if err != nil {
		return err
	}
	loop.SetObserver(obs)

	log.WithFields(logrus.Fields{
		"sampler": cfg.Sampler.Kind,
		"policy":  cc.NTC.Policy.String(),
		"period":  cc.PeriodMs,
		"retries": cc.SampleRetries,
	}).Info("control loop starting")

	err = loop.Run(ctx)
	if errors.Is(err, errcode.SensorRead) {
		log.WithError(err).Error("sensor unreadable, halting")
	}
	return err
}

// readingLogger logs each reading and forwards it to next when set.
type readingLogger struct {
	log  *logrus.Entry
	next control.Observer
}

func (o readingLogger) Observe(r control.Reading) {
	e := o.log.WithFields(logrus.Fields{"raw": r.Raw, "delay_ms": r.DelayMs})
	if r.Fault != nil {
		e.WithError(r.Fault).Warn("sample out of range")
	} else {
		e.WithField("celsius", r.Celsius).Debug("reading")
	}
	if o.next != nil {
		o.next.Observe(r)
	}
}
