package console

import (
	"fmt"
	"time"

	"github.com/ericogr/envsensors-to-http/pkg/output"
	"github.com/ericogr/envsensors-to-http/pkg/sensor"
)

type ConsoleOutput struct{}

func NewConsole() output.Output { return &ConsoleOutput{} }

func (c *ConsoleOutput) Publish(r sensor.Reading) error {
	fmt.Printf("%s temperature=%.1f humidity=%.1f air_quality=%.1f air_quality_raw=%d\n",
		r.Timestamp.Format(time.RFC3339), r.Temperature, r.Humidity, r.GasPercent, r.GasRaw)
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
