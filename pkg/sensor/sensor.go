package sensor

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrSensorFault marks a sample that failed or produced unusable values.
// It is expected to be transient: the caller skips the current cycle and
// samples again on the next one.
var ErrSensorFault = errors.New("sensor fault")

type Reading struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	GasRaw      int       `json:"gas_raw"`
	GasPercent  float64   `json:"gas_percent"`
	Timestamp   time.Time `json:"timestamp"`
}

type Sensor interface {
	Sample() (Reading, error)
	Close() error
}

// GasPercent normalizes a raw ADC count against the converter full-scale
// count. It is a plain linear scale, not a calibrated gas concentration.
func GasPercent(raw, fullScale int) float64 {
	return float64(raw) / float64(fullScale) * 100.0
}

func validateValues(temperature, humidity float64) error {
	if math.IsNaN(temperature) || math.IsNaN(humidity) {
		return fmt.Errorf("%w: temperature=%v humidity=%v", ErrSensorFault, temperature, humidity)
	}
	return nil
}
