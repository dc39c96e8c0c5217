package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ericogr/envsensors-to-http/pkg/config"
	"github.com/ericogr/envsensors-to-http/pkg/output"
	"github.com/ericogr/envsensors-to-http/pkg/payload"
	"github.com/ericogr/envsensors-to-http/pkg/sensor"
)

const (
	DefaultTopic = "envsensors.readings"

	writeTimeout = 5 * time.Second
)

type KafkaOutput struct {
	writer *kafka.Writer
	device string
}

// NewKafka returns an output that mirrors the collector wire document to a
// Kafka topic, keyed by device id so one device's readings stay in order.
func NewKafka(cfg config.KafkaConfig, deviceID string) (output.Output, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
	return &KafkaOutput{writer: w, device: deviceID}, nil
}

func (k *KafkaOutput) Publish(r sensor.Reading) error {
	b, err := payload.Encode(r, k.device)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	msg := kafka.Message{
		Key:   []byte(k.device),
		Value: b,
		Time:  r.Timestamp,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (k *KafkaOutput) Close() error {
	return k.writer.Close()
}
