package sensor

import (
	"math/rand"
	"time"

	"github.com/ericogr/envsensors-to-http/pkg/config"
)

// FakeSensor produces plausible ambient values for running without hardware.
type FakeSensor struct {
	fullScale int
}

func NewFakeSensor(cfg config.Config) (Sensor, error) {
	return &FakeSensor{fullScale: cfg.Gas.FullScale}, nil
}

func (f *FakeSensor) Sample() (Reading, error) {
	// temperature 20..30 C, humidity 30..80 %RH, gas 200..3000 raw
	raw := 200 + rand.Intn(2801)
	return Reading{
		Temperature: 20 + rand.Float64()*10,
		Humidity:    30 + rand.Float64()*50,
		GasRaw:      raw,
		GasPercent:  GasPercent(raw, f.fullScale),
		Timestamp:   time.Now(),
	}, nil
}

func (f *FakeSensor) Close() error { return nil }
