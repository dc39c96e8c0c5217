package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type WifiConfig struct {
	Interface        string `json:"interface"`
	SSID             string `json:"ssid"`
	Passphrase       string `json:"passphrase"`
	ConnectTimeoutMs int    `json:"connect_timeout_ms,omitempty"`
	SettleDelayMs    int    `json:"settle_delay_ms,omitempty"`
}

type CollectorConfig struct {
	URL       string `json:"url"`
	TimeoutMs int    `json:"timeout_ms"`
}

type DHTConfig struct {
	Pin  string `json:"pin"`
	Type string `json:"type"`
}

type GasConfig struct {
	I2CBus     string `json:"i2c_bus"`
	I2CAddress int    `json:"i2c_address"`
	Channel    int    `json:"channel"`
	SampleRate int    `json:"sample_rate"`
	FullScale  int    `json:"full_scale"`
}

type MQTTConfig struct {
	Server   string `json:"server"`
	Username string `json:"username"`
	Password string `json:"password"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
}

type KafkaConfig struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
}

type OutputConfig struct {
	Type  string       `json:"type"`
	MQTT  *MQTTConfig  `json:"mqtt,omitempty"`
	Kafka *KafkaConfig `json:"kafka,omitempty"`
}

type Config struct {
	DeviceID   string          `json:"device_id"`
	IntervalMs int             `json:"interval_ms"`
	SensorType string          `json:"sensor_type"`
	Wifi       *WifiConfig     `json:"wifi,omitempty"`
	Collector  CollectorConfig `json:"collector"`
	DHT        DHTConfig       `json:"dht"`
	Gas        GasConfig       `json:"gas"`
	Outputs    []OutputConfig  `json:"outputs"`
}

func DefaultConfig() Config {
	return Config{
		DeviceID:   "ESP32_001",
		IntervalMs: 5000,
		SensorType: "real",
		Collector:  CollectorConfig{URL: "http://127.0.0.1:8000/sensor-data", TimeoutMs: 5000},
		DHT:        DHTConfig{Pin: "GPIO4", Type: "dht11"},
		Gas:        GasConfig{I2CBus: "1", I2CAddress: 0x48, Channel: 0, SampleRate: 128, FullScale: 4095},
		Outputs:    []OutputConfig{{Type: "console"}},
	}
}

// LoadFromFlags loads configuration from a JSON file (optional) and flags.
// Flags override values present in the JSON file.
func LoadFromFlags() (Config, error) {
	cfgPath := flag.String("config", "", "Path to JSON config file")
	flagDeviceID := flag.String("device-id", "", "Device identifier sent with every reading")
	flagInterval := flag.Int("interval-ms", -1, "Sampling interval in ms")
	flagSensorType := flag.String("sensor-type", "", "sensor type: real|simulation")
	flagCollectorURL := flag.String("collector-url", "", "Collector endpoint URL")
	flagCollectorTimeout := flag.Int("collector-timeout-ms", -1, "Collector request timeout in ms")
	flagWifiIface := flag.String("wifi-interface", "", "WiFi interface name (e.g., wlan0)")
	flagWifiSSID := flag.String("wifi-ssid", "", "WiFi network SSID")
	flagWifiPass := flag.String("wifi-pass", "", "WiFi network passphrase")
	flagDHTPin := flag.String("dht-pin", "", "DHT data pin name (e.g., GPIO4)")
	flagDHTType := flag.String("dht-type", "", "DHT sensor type: dht11|dht22")
	flagI2CBus := flag.String("i2c-bus", "", "I2C bus of the gas ADC (e.g., '1' -> /dev/i2c-1)")
	flagI2CAddStr := flag.String("i2c-address", "", "I2C address of the gas ADC (decimal or 0x hex)")
	flagGasChannel := flag.Int("gas-channel", -1, "Gas ADC input channel (0-3)")
	flagSampleRate := flag.Int("sample-rate", -1, "Gas ADC sample rate (SPS)")
	flagFullScale := flag.Int("full-scale", -1, "Gas ADC full-scale raw count")
	flagOutputs := flag.String("outputs", "", "Comma-separated outputs (console,mqtt,kafka)")
	flagMQTTServer := flag.String("mqtt-server", "", "MQTT server (tcp://host:port)")
	flagMQTTUser := flag.String("mqtt-user", "", "MQTT username")
	flagMQTTPass := flag.String("mqtt-pass", "", "MQTT password")
	flagClientID := flag.String("mqtt-client-id", "", "MQTT client id")
	flagTopic := flag.String("mqtt-topic", "", "MQTT topic")
	flagKafkaBrokers := flag.String("kafka-brokers", "", "Comma-separated Kafka brokers (host:port)")
	flagKafkaTopic := flag.String("kafka-topic", "", "Kafka topic")

	flag.Parse()

	cfg := DefaultConfig()

	if *cfgPath != "" {
		b, err := os.ReadFile(*cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if *flagDeviceID != "" {
		cfg.DeviceID = *flagDeviceID
	}
	if *flagInterval != -1 {
		cfg.IntervalMs = *flagInterval
	}
	if *flagSensorType != "" {
		cfg.SensorType = *flagSensorType
	}
	if *flagCollectorURL != "" {
		cfg.Collector.URL = *flagCollectorURL
	}
	if *flagCollectorTimeout != -1 {
		cfg.Collector.TimeoutMs = *flagCollectorTimeout
	}
	if *flagWifiIface != "" || *flagWifiSSID != "" || *flagWifiPass != "" {
		if cfg.Wifi == nil {
			cfg.Wifi = &WifiConfig{}
		}
		if *flagWifiIface != "" {
			cfg.Wifi.Interface = *flagWifiIface
		}
		if *flagWifiSSID != "" {
			cfg.Wifi.SSID = *flagWifiSSID
		}
		if *flagWifiPass != "" {
			cfg.Wifi.Passphrase = *flagWifiPass
		}
	}
	if *flagDHTPin != "" {
		cfg.DHT.Pin = *flagDHTPin
	}
	if *flagDHTType != "" {
		cfg.DHT.Type = *flagDHTType
	}
	if *flagI2CBus != "" {
		cfg.Gas.I2CBus = *flagI2CBus
	}
	if *flagI2CAddStr != "" {
		v, err := parseIntOrHex(*flagI2CAddStr)
		if err != nil {
			return cfg, fmt.Errorf("i2c-address: %w", err)
		}
		cfg.Gas.I2CAddress = v
	}
	if *flagGasChannel != -1 {
		cfg.Gas.Channel = *flagGasChannel
	}
	if *flagSampleRate != -1 {
		cfg.Gas.SampleRate = *flagSampleRate
	}
	if *flagFullScale != -1 {
		cfg.Gas.FullScale = *flagFullScale
	}
	if *flagOutputs != "" {
		// convert simple CSV of types into structured OutputConfig entries
		parts := parseCSV(*flagOutputs)
		outs := make([]OutputConfig, 0, len(parts))
		for _, p := range parts {
			outs = append(outs, OutputConfig{Type: p})
		}
		cfg.Outputs = outs
	}
	// Apply MQTT flags to all mqtt outputs; if none exist, create one.
	if *flagMQTTServer != "" || *flagMQTTUser != "" || *flagMQTTPass != "" || *flagClientID != "" || *flagTopic != "" {
		applied := false
		for i := range cfg.Outputs {
			if strings.ToLower(cfg.Outputs[i].Type) != "mqtt" {
				continue
			}
			if cfg.Outputs[i].MQTT == nil {
				cfg.Outputs[i].MQTT = &MQTTConfig{}
			}
			applyMQTTFlags(cfg.Outputs[i].MQTT, *flagMQTTServer, *flagMQTTUser, *flagMQTTPass, *flagClientID, *flagTopic)
			applied = true
		}
		if !applied {
			out := OutputConfig{Type: "mqtt", MQTT: &MQTTConfig{}}
			applyMQTTFlags(out.MQTT, *flagMQTTServer, *flagMQTTUser, *flagMQTTPass, *flagClientID, *flagTopic)
			cfg.Outputs = append(cfg.Outputs, out)
		}
	}
	// Same for Kafka flags.
	if *flagKafkaBrokers != "" || *flagKafkaTopic != "" {
		applied := false
		for i := range cfg.Outputs {
			if strings.ToLower(cfg.Outputs[i].Type) != "kafka" {
				continue
			}
			if cfg.Outputs[i].Kafka == nil {
				cfg.Outputs[i].Kafka = &KafkaConfig{}
			}
			applyKafkaFlags(cfg.Outputs[i].Kafka, *flagKafkaBrokers, *flagKafkaTopic)
			applied = true
		}
		if !applied {
			out := OutputConfig{Type: "kafka", Kafka: &KafkaConfig{}}
			applyKafkaFlags(out.Kafka, *flagKafkaBrokers, *flagKafkaTopic)
			cfg.Outputs = append(cfg.Outputs, out)
		}
	}

	if cfg.DeviceID == "" {
		cfg.DeviceID = "envsensors-" + uuid.NewString()[:8]
	}
	if cfg.IntervalMs <= 0 {
		return cfg, errors.New("interval-ms must be > 0")
	}
	if cfg.Collector.URL == "" {
		return cfg, errors.New("collector url must not be empty")
	}
	if cfg.Collector.TimeoutMs <= 0 {
		return cfg, errors.New("collector timeout must be > 0")
	}
	if cfg.Gas.SampleRate <= 0 {
		return cfg, errors.New("sample-rate must be > 0")
	}
	if cfg.Gas.FullScale <= 0 {
		return cfg, errors.New("full-scale must be > 0")
	}
	if cfg.Wifi != nil && cfg.Wifi.SSID == "" {
		return cfg, errors.New("wifi ssid must not be empty when wifi is configured")
	}

	return cfg, nil
}

func applyMQTTFlags(m *MQTTConfig, server, user, pass, clientID, topic string) {
	if server != "" {
		m.Server = server
	}
	if user != "" {
		m.Username = user
	}
	if pass != "" {
		m.Password = pass
	}
	if clientID != "" {
		m.ClientID = clientID
	}
	if topic != "" {
		m.Topic = topic
	}
}

func applyKafkaFlags(k *KafkaConfig, brokers, topic string) {
	if brokers != "" {
		k.Brokers = parseCSV(brokers)
	}
	if topic != "" {
		k.Topic = topic
	}
}

func parseIntOrHex(s string) (int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 0)
		return int(v), err
	}
	v, err := strconv.Atoi(s)
	return v, err
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
