// Package observe provides OpenTelemetry metric instruments for kcstape
// batch runs. The one-shot CLI uses a manual reader: instruments are recorded
// during the run and collected once at the end for the summary report. Tests
// should use [NewMetrics] with their own [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all kcstape metrics.
const meterName = "github.com/cskordis/kcstape"

// Metrics holds all OpenTelemetry metric instruments for the encoder.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// FilesEncoded counts processed source files. Use with attribute:
	//   attribute.String("status", "ok"|"error")
	FilesEncoded metric.Int64Counter

	// RecordsEncoded counts labeled source lines across all files.
	RecordsEncoded metric.Int64Counter

	// DataBytes counts encoded data bytes (the size-header tally) across all
	// files.
	DataBytes metric.Int64Counter

	// SamplesWritten counts PCM samples written across all files.
	SamplesWritten metric.Int64Counter

	// EncodeDuration tracks per-file encode latency.
	EncodeDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// per-file encode times, which grow with the leader duration and file size.
var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FilesEncoded, err = m.Int64Counter("kcstape.files.encoded",
		metric.WithDescription("Number of source files processed."),
	); err != nil {
		return nil, err
	}
	if met.RecordsEncoded, err = m.Int64Counter("kcstape.records.encoded",
		metric.WithDescription("Number of labeled source lines encoded."),
	); err != nil {
		return nil, err
	}
	if met.DataBytes, err = m.Int64Counter("kcstape.data.bytes",
		metric.WithDescription("Encoded data bytes counted by the size header."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if met.SamplesWritten, err = m.Int64Counter("kcstape.samples.written",
		metric.WithDescription("PCM samples written to output files."),
	); err != nil {
		return nil, err
	}
	if met.EncodeDuration, err = m.Float64Histogram("kcstape.encode.duration",
		metric.WithDescription("Per-file encode latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}
