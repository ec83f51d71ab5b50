// Package enumerate expands a linearized DAG into every resource-class
// assignment instance, propagating per-function finish times along DAG
// edges to compute a makespan and accumulating a cost for each.
package enumerate

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/swarmguard/admission-planner/dagmodel"
	"github.com/swarmguard/admission-planner/linearize"
)

var (
	tracer = otel.Tracer("admission-planner/enumerate")
	meter  = otel.Meter("admission-planner/enumerate")
)

// Enumerate returns one DAGInstance per element of ResourceClass^|functions|,
// Θ(|classes|^|functions|) of them, per spec.md section 4.2. The
// enumerator performs no pruning; that is Pareto's job. Finalisation sorts
// each instance's per-class work list by decreasing memory demand, the
// first-fit-decreasing order the placer expects.
func Enumerate(ctx context.Context, dag *dagmodel.DAG) ([]*dagmodel.DAGInstance, error) {
	ctx, span := tracer.Start(ctx, "enumerate",
		trace.WithAttributes(attribute.String("dag.id", dag.ID), attribute.Int("dag.num_funcs", dag.NumFuncs)))
	defer span.End()

	order, err := linearize.Linearize(ctx, dag)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	classes := dag.Classes().Classes()
	instances := make([]*dagmodel.DAGInstance, 0, len(classes))

	root := order[0]
	for _, class := range classes {
		inst := dagmodel.NewDAGInstance(dag.Classes())
		inst.Assign(root, class)
		instances = append(instances, inst)
	}

	for _, fn := range order[1:] {
		next := make([]*dagmodel.DAGInstance, 0, len(instances)*len(classes))
		for _, inst := range instances {
			for _, class := range classes {
				branch := inst.Clone()
				branch.Assign(fn, class)
				next = append(next, branch)
			}
		}
		instances = next
	}

	for _, inst := range instances {
		inst.SortPerClassByMemoryDesc()
	}

	instanceCounter, _ := meter.Int64Counter("planner_enumerate_instances_total")
	instanceCounter.Add(ctx, int64(len(instances)), metric.WithAttributes(attribute.String("dag.id", dag.ID)))
	span.SetAttributes(attribute.Int("enumerate.instance_count", len(instances)))

	return instances, nil
}
