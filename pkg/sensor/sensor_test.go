package sensor

import (
	"errors"
	"math"
	"testing"

	"github.com/ericogr/envsensors-to-http/pkg/config"
)

func TestGasPercent(t *testing.T) {
	tests := []struct {
		raw, fullScale int
		want           float64
	}{
		{0, 4095, 0},
		{4095, 4095, 100},
		{2048, 4095, 50.0},
		{500, 4095, 12.21},
	}
	for _, tt := range tests {
		got := GasPercent(tt.raw, tt.fullScale)
		if math.Abs(got-tt.want) > 0.05 {
			t.Fatalf("GasPercent(%d, %d) = %f; want ~%f", tt.raw, tt.fullScale, got, tt.want)
		}
	}
}

func TestValidateValues(t *testing.T) {
	if err := validateValues(23.5, 60.0); err != nil {
		t.Fatalf("valid values rejected: %v", err)
	}
	if err := validateValues(math.NaN(), 60.0); !errors.Is(err, ErrSensorFault) {
		t.Fatalf("nan temperature: got %v, want ErrSensorFault", err)
	}
	if err := validateValues(23.5, math.NaN()); !errors.Is(err, ErrSensorFault) {
		t.Fatalf("nan humidity: got %v, want ErrSensorFault", err)
	}
}

func TestFakeSensorSample(t *testing.T) {
	cfg := config.DefaultConfig()
	s, err := NewFakeSensor(cfg)
	if err != nil {
		t.Fatalf("new fake sensor: %v", err)
	}
	defer s.Close()

	for i := 0; i < 100; i++ {
		r, err := s.Sample()
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		if r.Temperature < 20 || r.Temperature > 30 {
			t.Fatalf("temperature out of range: %f", r.Temperature)
		}
		if r.Humidity < 30 || r.Humidity > 80 {
			t.Fatalf("humidity out of range: %f", r.Humidity)
		}
		if r.GasRaw < 200 || r.GasRaw > 3000 {
			t.Fatalf("gas raw out of range: %d", r.GasRaw)
		}
		if want := GasPercent(r.GasRaw, cfg.Gas.FullScale); r.GasPercent != want {
			t.Fatalf("gas percent: got %f, want %f", r.GasPercent, want)
		}
		if r.Timestamp.IsZero() {
			t.Fatalf("timestamp not set")
		}
	}
}
