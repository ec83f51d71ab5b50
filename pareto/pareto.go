// Package pareto reduces a set of DAGInstances to the Pareto-optimal
// subset over (running_time, running_cost).
package pareto

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/swarmguard/admission-planner/dagmodel"
)

var (
	tracer = otel.Tracer("admission-planner/pareto")
	meter  = otel.Meter("admission-planner/pareto")
)

// Select returns the Pareto-optimal subset of instances under minimising
// (running_time, running_cost). An instance x is dominated iff some other
// instance y has both y.running_time <= x.running_time and
// y.running_cost <= x.running_cost, with at least one strict — so two
// instances with an identical (time, cost) pair are never mutually
// dominated and both survive (spec.md section 4.3's resolved Open
// Question; see DESIGN.md).
//
// Implemented as an O(n log n) sort-by-time-and-sweep-min-cost rather than
// the O(n^2) pairwise check spec.md allows, since enumerate's instance
// count already grows exponentially in DAG size.
func Select(ctx context.Context, instances []*dagmodel.DAGInstance) []*dagmodel.DAGInstance {
	ctx, span := tracer.Start(ctx, "pareto.select", trace.WithAttributes(attribute.Int("pareto.input_count", len(instances))))
	defer span.End()

	retainedCounter, _ := meter.Int64Counter("planner_pareto_retained_total")
	droppedCounter, _ := meter.Int64Counter("planner_pareto_dropped_total")

	if len(instances) == 0 {
		return nil
	}

	type entry struct {
		inst *dagmodel.DAGInstance
		idx  int
	}
	sorted := make([]entry, len(instances))
	for i, inst := range instances {
		sorted[i] = entry{inst: inst, idx: i}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].inst.RunningTime != sorted[j].inst.RunningTime {
			return sorted[i].inst.RunningTime < sorted[j].inst.RunningTime
		}
		return sorted[i].inst.RunningCost < sorted[j].inst.RunningCost
	})

	kept := make([]*dagmodel.DAGInstance, 0, len(instances))
	minCostBefore := int(^uint(0) >> 1) // max int: no prior group yet

	for i := 0; i < len(sorted); {
		j := i
		time := sorted[i].inst.RunningTime
		minCostInGroup := sorted[i].inst.RunningCost
		for j < len(sorted) && sorted[j].inst.RunningTime == time {
			if sorted[j].inst.RunningCost < minCostInGroup {
				minCostInGroup = sorted[j].inst.RunningCost
			}
			j++
		}
		for k := i; k < j; k++ {
			if sorted[k].inst.RunningCost == minCostInGroup && sorted[k].inst.RunningCost < minCostBefore {
				kept = append(kept, sorted[k].inst)
			}
		}
		if minCostInGroup < minCostBefore {
			minCostBefore = minCostInGroup
		}
		i = j
	}

	retainedCounter.Add(ctx, int64(len(kept)))
	droppedCounter.Add(ctx, int64(len(instances)-len(kept)))
	span.SetAttributes(attribute.Int("pareto.output_count", len(kept)))
	return kept
}
