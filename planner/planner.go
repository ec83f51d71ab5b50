// Package planner wires the dependency linearizer, instance enumerator,
// Pareto selector, SLO sampler, and bin-packing placer into a single
// admission-control decision per DAG submission.
package planner

import (
	"context"
	"log/slog"
	"math/rand"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/swarmguard/admission-planner/dagmodel"
	"github.com/swarmguard/admission-planner/enumerate"
	"github.com/swarmguard/admission-planner/pareto"
	"github.com/swarmguard/admission-planner/place"
	"github.com/swarmguard/admission-planner/sample"
)

var (
	tracer = otel.Tracer("admission-planner/planner")
	meter  = otel.Meter("admission-planner/planner")
)

// Outcome is the result of one Plan call: exactly one of Placement or
// Reason is populated, matching spec.md section 7's distinction between an
// admitted DAG and an ordinary admission-control rejection.
type Outcome struct {
	Admitted  bool
	Placement dagmodel.Placement
	Instance  *dagmodel.DAGInstance
	Reason    string // "infeasible_slo" or "capacity_exhausted" when !Admitted
}

// Planner holds the long-lived resources (node inventory, sample-size
// ceiling, logger) a sequence of Plan calls runs against. It is not
// goroutine-safe for concurrent Plan calls against the same Cluster, by
// design: see dagmodel.Cluster's doc comment.
type Planner struct {
	cluster       *dagmodel.Cluster
	maxSampleSize int
	log           *slog.Logger
}

// New builds a Planner over cluster, with a configured sample-size
// ceiling and an optional logger (defaults to slog.Default() when nil).
func New(cluster *dagmodel.Cluster, maxSampleSize int, log *slog.Logger) *Planner {
	if log == nil {
		log = slog.Default()
	}
	return &Planner{cluster: cluster, maxSampleSize: maxSampleSize, log: log}
}

// Plan runs the full admission pipeline for dag: linearize, enumerate
// every resource-class assignment, reduce to the Pareto frontier, draw up
// to n SLO-feasible candidates, and attempt to place each in turn until
// one succeeds or all are exhausted. It returns an error only for
// structural problems (a malformed DAG, bad configuration) — an
// infeasible SLO or exhausted cluster capacity comes back as an
// unadmitted Outcome, per spec.md section 7's error taxonomy.
func (p *Planner) Plan(ctx context.Context, dag *dagmodel.DAG, costSLO, timeSLO, n int, rng *rand.Rand) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "planner.plan", trace.WithAttributes(
		attribute.String("dag.id", dag.ID),
		attribute.Int("dag.num_funcs", dag.NumFuncs),
	))
	defer span.End()

	planCalls, _ := meter.Int64Counter("planner_plan_calls_total")
	planCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("dag.id", dag.ID)))

	instances, err := enumerate.Enumerate(ctx, dag)
	if err != nil {
		span.RecordError(err)
		p.log.Error("enumeration failed", "dag_id", dag.ID, "error", err)
		return Outcome{}, err
	}

	frontier := pareto.Select(ctx, instances)

	selector, err := sample.NewSelector(frontier, p.maxSampleSize)
	if err != nil {
		span.RecordError(err)
		p.log.Error("sampler configuration invalid", "dag_id", dag.ID, "error", err)
		return Outcome{}, err
	}

	candidates := selector.Sample(ctx, costSLO, timeSLO, n, rng)
	if len(candidates) == 0 {
		p.log.Warn("no candidate instance satisfies the requested SLO",
			"dag_id", dag.ID, "cost_slo", costSLO, "time_slo", timeSLO, "frontier_size", len(frontier))
		span.SetAttributes(attribute.Bool("plan.admitted", false), attribute.String("plan.reason", "infeasible_slo"))
		return Outcome{Admitted: false, Reason: "infeasible_slo"}, nil
	}

	for _, inst := range candidates {
		placement := place.Place(ctx, p.cluster, inst)
		if placement != nil {
			p.log.Info("dag admitted",
				"dag_id", dag.ID, "running_cost", inst.RunningCost, "running_time", inst.RunningTime,
				"functions_placed", len(placement))
			span.SetAttributes(attribute.Bool("plan.admitted", true))
			return Outcome{Admitted: true, Placement: placement, Instance: inst}, nil
		}
	}

	p.log.Warn("cluster capacity exhausted for every sampled candidate",
		"dag_id", dag.ID, "candidates_tried", len(candidates))
	span.SetAttributes(attribute.Bool("plan.admitted", false), attribute.String("plan.reason", "capacity_exhausted"))
	return Outcome{Admitted: false, Reason: "capacity_exhausted"}, nil
}
