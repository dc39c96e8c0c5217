package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ericogr/envsensors-to-http/pkg/collector"
	"github.com/ericogr/envsensors-to-http/pkg/config"
	"github.com/ericogr/envsensors-to-http/pkg/link"
	"github.com/ericogr/envsensors-to-http/pkg/output"
	"github.com/ericogr/envsensors-to-http/pkg/output/console"
	"github.com/ericogr/envsensors-to-http/pkg/output/kafka"
	"github.com/ericogr/envsensors-to-http/pkg/output/mqtt"
	"github.com/ericogr/envsensors-to-http/pkg/payload"
	"github.com/ericogr/envsensors-to-http/pkg/sensor"
)

// pollGranularity is how often the loop checks whether a cycle is due. It
// bounds scheduling jitter, not the sampling interval itself.
const pollGranularity = 100 * time.Millisecond

// pollResult says what a single poll did. Exactly one applies per poll.
type pollResult int

const (
	pollNotDue pollResult = iota
	pollLinkDown
	pollSensorFault
	pollEncodeFailed
	pollTransmitted
)

type agent struct {
	deviceID  string
	link      link.Manager
	sensor    sensor.Sensor
	transmit  *collector.Client
	outputs   []output.Output
	interval  time.Duration
	lastCycle time.Time
}

// poll runs one cycle when the interval has elapsed, otherwise it does
// nothing. The cycle timer is reset at the start of the cycle, so a slow or
// failing cycle shifts the next one instead of causing a catch-up burst.
func (a *agent) poll(ctx context.Context, now time.Time) pollResult {
	if now.Sub(a.lastCycle) < a.interval {
		return pollNotDue
	}
	a.lastCycle = now

	if !a.link.IsConnected() {
		log.Warnf("link down, issuing reconnect")
		if err := a.link.EnsureConnected(); err != nil {
			log.Errorf("reconnect: %v", err)
		}
		return pollLinkDown
	}

	r, err := a.sensor.Sample()
	if err != nil {
		log.Warnf("sample failed: %v", err)
		return pollSensorFault
	}

	body, err := payload.Encode(r, a.deviceID)
	if err != nil {
		log.Errorf("encode failed: %v", err)
		return pollEncodeFailed
	}

	// diagnostic mirrors never abort the cycle
	for _, o := range a.outputs {
		if err := o.Publish(r); err != nil {
			log.Errorf("output publish: %v", err)
		}
	}

	out := a.transmit.Send(ctx, body)
	switch out.Status {
	case collector.Delivered:
		log.Printf("delivered (%s)", out.Body)
	case collector.RejectedByServer:
		log.Errorf("collector rejected reading: status %d", out.Code)
	case collector.TransportFailure:
		log.Errorf("transmit failed: %v", out.Err)
	}
	return pollTransmitted
}

func (a *agent) run(ctx context.Context) {
	ticker := time.NewTicker(pollGranularity)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.poll(ctx, now)
		}
	}
}

func initLink(cfg config.Config) link.Manager {
	if cfg.Wifi == nil {
		return link.AlwaysUp{}
	}
	return link.NewWiFi(*cfg.Wifi)
}

func initSensor(cfg config.Config) (sensor.Sensor, error) {
	switch strings.ToLower(cfg.SensorType) {
	case "", "real":
		return sensor.NewHardwareSensor(cfg)
	case "simulation":
		return sensor.NewFakeSensor(cfg)
	default:
		return nil, fmt.Errorf("unknown sensor type %q", cfg.SensorType)
	}
}

func initOutputs(cfg config.Config) ([]output.Output, error) {
	outs := make([]output.Output, 0, len(cfg.Outputs))
	for _, oc := range cfg.Outputs {
		switch strings.ToLower(oc.Type) {
		case "console":
			outs = append(outs, console.NewConsole())
		case "mqtt":
			var mc config.MQTTConfig
			if oc.MQTT != nil {
				mc = *oc.MQTT
			}
			o, err := mqtt.NewMQTT(mc, cfg.DeviceID)
			if err != nil {
				return nil, fmt.Errorf("mqtt output: %w", err)
			}
			outs = append(outs, o)
		case "kafka":
			var kc config.KafkaConfig
			if oc.Kafka != nil {
				kc = *oc.Kafka
			}
			o, err := kafka.NewKafka(kc, cfg.DeviceID)
			if err != nil {
				return nil, fmt.Errorf("kafka output: %w", err)
			}
			outs = append(outs, o)
		default:
			return nil, fmt.Errorf("unknown output type %q", oc.Type)
		}
	}
	return outs, nil
}

func closeOutputs(outs []output.Output) {
	for _, o := range outs {
		if err := o.Close(); err != nil {
			log.Errorf("output close: %v", err)
		}
	}
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	s, err := initSensor(cfg)
	if err != nil {
		log.Fatalf("sensor init: %v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Errorf("sensor close: %v", err)
		}
	}()

	outs, err := initOutputs(cfg)
	if err != nil {
		log.Fatalf("output init: %v", err)
	}
	defer closeOutputs(outs)

	a := &agent{
		deviceID: cfg.DeviceID,
		link:     initLink(cfg),
		sensor:   s,
		transmit: collector.New(cfg.Collector.URL, time.Duration(cfg.Collector.TimeoutMs)*time.Millisecond),
		outputs:  outs,
		interval: time.Duration(cfg.IntervalMs) * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("shutdown signal received")
		cancel()
	}()

	log.Printf("agent started: device=%s collector=%s interval=%s", cfg.DeviceID, cfg.Collector.URL, a.interval)
	a.run(ctx)
	log.Printf("agent stopped")
}
