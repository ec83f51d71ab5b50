// Package linearize produces a deterministic topological order of a DAG's
// functions, the order the enumerator walks to build DAGInstances.
package linearize

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/swarmguard/admission-planner/dagmodel"
)

var (
	tracer = otel.Tracer("admission-planner/linearize")
	meter  = otel.Meter("admission-planner/linearize")
)

// Linearize returns dag's functions in Kahn-style topological order: the
// root first, then every function only after all of its predecessors.
// Ties between simultaneously-ready functions break by ascending function
// id, since Function.NextFuncs is kept sorted by dagmodel — this makes
// enumeration and its tests reproducible.
//
// Linearize returns a *dagmodel.MalformedDAGError when the emitted
// sequence is shorter than dag.NumFuncs: a function unreachable from the
// root, or a cycle among non-root functions, both show up as functions
// that never become ready.
func Linearize(ctx context.Context, dag *dagmodel.DAG) ([]*dagmodel.Function, error) {
	ctx, span := tracer.Start(ctx, "linearize.linearize", trace.WithAttributes(
		attribute.String("dag.id", dag.ID), attribute.Int("dag.num_funcs", dag.NumFuncs)))
	defer span.End()

	satisfied := make(map[dagmodel.FunctionID]int)
	order := make([]*dagmodel.Function, 0, dag.NumFuncs)

	root, ok := dag.Function(dag.Root)
	if !ok {
		err := &dagmodel.MalformedDAGError{DAGID: dag.ID, Reason: "root function missing from function table"}
		span.RecordError(err)
		return nil, err
	}

	queue := make([]*dagmodel.Function, 0, dag.NumFuncs)
	queue = append(queue, root)

	for len(queue) > 0 {
		fn := queue[0]
		queue = queue[1:]
		order = append(order, fn)

		for _, succID := range fn.NextFuncs {
			succ, ok := dag.Function(succID)
			if !ok {
				err := &dagmodel.MalformedDAGError{DAGID: dag.ID, Reason: "edge references unknown function " + string(succID)}
				span.RecordError(err)
				return nil, err
			}
			satisfied[succID]++
			if satisfied[succID] == len(succ.PrevFuncs) {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != dag.NumFuncs {
		err := &dagmodel.MalformedDAGError{
			DAGID:  dag.ID,
			Reason: "linearized length does not match num_funcs: unreachable function or cycle",
		}
		span.RecordError(err)
		return nil, err
	}

	orderedCounter, _ := meter.Int64Counter("planner_linearize_functions_total")
	orderedCounter.Add(ctx, int64(len(order)), metric.WithAttributes(attribute.String("dag.id", dag.ID)))
	span.SetAttributes(attribute.Int("linearize.ordered_count", len(order)))
	return order, nil
}
