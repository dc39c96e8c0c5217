package sensor

import (
	"fmt"
	"time"

	"github.com/MichaelS11/go-dht"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/ericogr/envsensors-to-http/pkg/config"
)

type HardwareSensor struct {
	dht       *dht.DHT
	gas       *gasADC
	bus       i2c.BusCloser
	fullScale int
}

// NewHardwareSensor opens the DHT data pin and the gas ADC I2C device
// described by the configuration.
func NewHardwareSensor(cfg config.Config) (Sensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	d, err := dht.NewDHT(cfg.DHT.Pin, dht.Celsius, cfg.DHT.Type)
	if err != nil {
		return nil, fmt.Errorf("dht init: %w", err)
	}
	bus, err := i2creg.Open(cfg.Gas.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("open i2c: %w", err)
	}
	dev := &i2c.Dev{Addr: uint16(cfg.Gas.I2CAddress), Bus: bus}
	gas := &gasADC{dev: dev, channel: cfg.Gas.Channel, sampleRate: cfg.Gas.SampleRate}
	return &HardwareSensor{dht: d, gas: gas, bus: bus, fullScale: cfg.Gas.FullScale}, nil
}

func (s *HardwareSensor) Close() error {
	if s.bus != nil {
		return s.bus.Close()
	}
	return nil
}

// Sample reads temperature/humidity and the raw gas count in one pass.
// NaN temperature or humidity fails the sample with ErrSensorFault; the gas
// count is passed through unvalidated.
func (s *HardwareSensor) Sample() (Reading, error) {
	humidity, temperature, err := s.dht.Read()
	if err != nil {
		return Reading{}, fmt.Errorf("%w: dht read: %v", ErrSensorFault, err)
	}
	if err := validateValues(temperature, humidity); err != nil {
		return Reading{}, err
	}
	raw, err := s.gas.readRaw()
	if err != nil {
		return Reading{}, fmt.Errorf("%w: gas adc read: %v", ErrSensorFault, err)
	}
	return Reading{
		Temperature: temperature,
		Humidity:    humidity,
		GasRaw:      raw,
		GasPercent:  GasPercent(raw, s.fullScale),
		Timestamp:   time.Now(),
	}, nil
}
