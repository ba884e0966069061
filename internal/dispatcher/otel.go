package dispatcher

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/globe/internal/dispatcher"

// commandKey labels every dispatcher metric with the controller command,
// e.g. trajectory.load or clock.tick.
const commandKey = attribute.Key("command")

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

func commandAttrs(name string) metric.MeasurementOption {
	return metric.WithAttributes(commandKey.String(name))
}
