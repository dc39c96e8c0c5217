package output

import "github.com/ericogr/envsensors-to-http/pkg/sensor"

type Output interface {
	Publish(sensor.Reading) error
	Close() error
}

// helper constructors are in subpackages
