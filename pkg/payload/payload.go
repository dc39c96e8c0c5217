package payload

import (
	"encoding/json"
	"fmt"

	"github.com/ericogr/envsensors-to-http/pkg/sensor"
)

// MaxSize bounds the encoded document. Encode fails instead of producing a
// larger body.
const MaxSize = 256

// document is the collector wire format. Field order is part of the
// contract and must not change.
type document struct {
	DeviceID      string  `json:"device_id"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	AirQuality    float64 `json:"air_quality"`
	AirQualityRaw int     `json:"air_quality_raw"`
}

// Encode renders a reading as the flat JSON document the collector expects:
// device_id (string), temperature (degrees C), humidity (%RH), air_quality
// (0-100 derived scale) and air_quality_raw (raw ADC count). Values are
// carried over from the reading unchanged.
func Encode(r sensor.Reading, deviceID string) ([]byte, error) {
	b, err := json.Marshal(document{
		DeviceID:      deviceID,
		Temperature:   r.Temperature,
		Humidity:      r.Humidity,
		AirQuality:    r.GasPercent,
		AirQualityRaw: r.GasRaw,
	})
	if err != nil {
		return nil, fmt.Errorf("encode reading: %w", err)
	}
	if len(b) > MaxSize {
		return nil, fmt.Errorf("encoded reading is %d bytes, limit %d", len(b), MaxSize)
	}
	return b, nil
}
