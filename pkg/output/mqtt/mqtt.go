package mqtt

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ericogr/envsensors-to-http/pkg/config"
	"github.com/ericogr/envsensors-to-http/pkg/output"
	"github.com/ericogr/envsensors-to-http/pkg/payload"
	"github.com/ericogr/envsensors-to-http/pkg/sensor"
)

const (
	// defaults
	DefaultServer   = "tcp://localhost:1883"
	DefaultClientID = "envsensors-client"
	DefaultTopic    = "envsensors/readings"
)

type MQTTOutput struct {
	client mqtt.Client
	topic  string
	device string
}

// NewMQTT connects to the broker and returns an output that mirrors the
// collector wire document to a topic.
func NewMQTT(cfg config.MQTTConfig, deviceID string) (output.Output, error) {
	server := cfg.Server
	if server == "" {
		server = DefaultServer
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	opts := mqtt.NewClientOptions().AddBroker(server).SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTOutput{client: client, topic: topic, device: deviceID}, nil
}

func (m *MQTTOutput) Publish(r sensor.Reading) error {
	b, err := payload.Encode(r, m.device)
	if err != nil {
		return err
	}
	token := m.client.Publish(m.topic, 0, false, b)
	token.Wait()
	return token.Error()
}

func (m *MQTTOutput) Close() error {
	if m.client != nil {
		m.client.Disconnect(250)
	}
	return nil
}
