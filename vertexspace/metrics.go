package vertexspace

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter for partition maintenance. The global no-op meter
// makes all of this free when no metrics SDK is installed.
var meter = otel.Meter("libmt-node-network/vertexspace")

var (
	mergesTotal metric.Int64Counter
	splitsTotal metric.Int64Counter
	floodSize   metric.Int64Histogram
	splitPieces metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		mergesTotal, err = meter.Int64Counter(
			"vertexspace_graphs_merged_total",
			metric.WithDescription("Graphs consumed by insertion floods"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		splitsTotal, err = meter.Int64Counter(
			"vertexspace_graph_splits_total",
			metric.WithDescription("Removals that split a graph"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		floodSize, err = meter.Int64Histogram(
			"vertexspace_flood_size",
			metric.WithDescription("Vertices visited per insertion flood"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		splitPieces, err = meter.Int64Histogram(
			"vertexspace_split_pieces",
			metric.WithDescription("Components produced per splitting removal"),
		)
		if err != nil {
			metricsErr = err
		}
	})

	return metricsErr
}

// recordMerge notes an insertion flood that consumed merged graphs and
// visited flooded vertices.
func recordMerge(merged, flooded int) {
	if initMetrics() != nil {
		return
	}
	ctx := context.Background()
	if merged > 0 {
		mergesTotal.Add(ctx, int64(merged))
	}
	floodSize.Record(ctx, int64(flooded))
}

// recordSplit notes a removal that left the graph in pieces parts.
func recordSplit(pieces int) {
	if initMetrics() != nil {
		return
	}
	ctx := context.Background()
	splitsTotal.Add(ctx, 1)
	splitPieces.Record(ctx, int64(pieces))
}
