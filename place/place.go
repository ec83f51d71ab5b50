// Package place attempts a first-fit, memory-aware placement of one
// DAGInstance onto a Cluster's physical nodes.
package place

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/swarmguard/admission-planner/dagmodel"
)

var (
	tracer = otel.Tracer("admission-planner/place")
	meter  = otel.Meter("admission-planner/place")
)

// Place attempts to place every function of instance onto a node of its
// assigned class in cluster. Placement is all-or-nothing across the whole
// DAG: on success, cluster is mutated exactly once with a complete
// mapping; on failure (CapacityExhausted, an ordinary outcome per
// spec.md section 7), cluster is left observably unchanged and Place
// returns a nil Placement.
//
// Each class is attempted independently against a deep copy of its node
// pool (dagmodel.Cluster.Pool), and only committed back via CommitPools
// once every class has succeeded — this gives placement its rollback
// semantics for free, without needing to undo partial mutations by hand,
// and fixes the source bug (spec.md section 9) where a failed class
// corrupted the whole cluster's node index.
func Place(ctx context.Context, cluster *dagmodel.Cluster, instance *dagmodel.DAGInstance) dagmodel.Placement {
	ctx, span := tracer.Start(ctx, "place.place")
	defer span.End()

	placement := make(dagmodel.Placement)
	pending := make(map[dagmodel.ClassName][]*dagmodel.Node)

	for _, class := range cluster.ClassTable().Names() {
		work := instance.PerClass[class]
		if len(work) == 0 {
			continue
		}

		pool := cluster.Pool(class)
		for _, fm := range work {
			idx := firstFit(pool, fm.Demand)
			if idx < 0 {
				capacityExhausted.Add(ctx, 1, metric.WithAttributes(attribute.String("class", string(class))))
				span.SetAttributes(attribute.Bool("place.succeeded", false), attribute.String("place.exhausted_class", string(class)))
				return nil
			}
			placement[fm.ID] = pool[idx].ID
			pool[idx].AvailableMemory -= fm.Demand
			sortByMemory(pool)
		}
		pending[class] = pool
	}

	cluster.CommitPools(pending)
	span.SetAttributes(attribute.Bool("place.succeeded", true), attribute.Int("place.functions_placed", len(placement)))
	return placement
}

var capacityExhausted, _ = meter.Int64Counter("planner_placement_capacity_exhausted_total")

// firstFit scans pool, sorted ascending by available memory, and returns
// the index of the first node that can hold demand, or -1.
func firstFit(pool []*dagmodel.Node, demand int) int {
	for i, n := range pool {
		if n.AvailableMemory >= demand {
			return i
		}
	}
	return -1
}

func sortByMemory(pool []*dagmodel.Node) {
	sort.Slice(pool, func(i, j int) bool { return pool[i].AvailableMemory < pool[j].AvailableMemory })
}
