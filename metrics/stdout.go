package metrics

import (
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// newStdoutExporter builds the periodic stdout exporter. Useful mostly
// while developing against a service that has no scraper yet.
func newStdoutExporter() (sdkmetric.Exporter, error) {
	exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
	if err != nil {
		return nil, fmt.Errorf("metrics: create stdout exporter: %w", err)
	}
	return exp, nil
}
