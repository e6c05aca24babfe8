package groupspace

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("libmt-node-network/groupspace")

var (
	repairsTotal  metric.Int64Counter
	splitsTotal   metric.Int64Counter
	groupsCreated metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		repairsTotal, err = meter.Int64Counter(
			"groupspace_repairs_total",
			metric.WithDescription("Repair passes run on mutated groups"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		splitsTotal, err = meter.Int64Counter(
			"groupspace_group_splits_total",
			metric.WithDescription("Repairs that found the group split"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		groupsCreated, err = meter.Int64Counter(
			"groupspace_groups_created_total",
			metric.WithDescription("Groups allocated over the tracker's lifetime"),
		)
		if err != nil {
			metricsErr = err
		}
	})

	return metricsErr
}

func recordRepair() {
	if initMetrics() != nil {
		return
	}
	repairsTotal.Add(context.Background(), 1)
}

func recordSplit() {
	if initMetrics() != nil {
		return
	}
	splitsTotal.Add(context.Background(), 1)
}

func recordGroupCreated() {
	if initMetrics() != nil {
		return
	}
	groupsCreated.Add(context.Background(), 1)
}
