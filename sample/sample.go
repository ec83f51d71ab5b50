// Package sample draws an SLO-constrained, uniform sample of DAGInstances
// from a Pareto frontier.
package sample

import (
	"context"
	"math/rand"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/swarmguard/admission-planner/dagmodel"
)

var (
	tracer = otel.Tracer("admission-planner/sample")
	meter  = otel.Meter("admission-planner/sample")
)

// Selector maintains two orderings of a Pareto list — by running_cost
// ascending and by running_time ascending — so SLO cut-offs can be found
// with a binary search rather than a linear scan.
type Selector struct {
	byCost        []*dagmodel.DAGInstance
	byTime        []*dagmodel.DAGInstance
	maxSampleSize int
}

// NewSelector builds a Selector over pareto. maxSampleSize must be
// positive — spec.md section 7 treats sample_size <= 0 as a
// ConfigurationError, fatal to the whole planner call. Once validated, the
// configured size is clamped into [1, len(pareto)] exactly as the source's
// DAGSelector constructor does, so a caller-configured ceiling larger than
// the frontier never causes an out-of-range sample request downstream.
func NewSelector(pareto []*dagmodel.DAGInstance, maxSampleSize int) (*Selector, error) {
	if maxSampleSize <= 0 {
		return nil, &dagmodel.ConfigurationError{Subject: "sample_size", Reason: "must be positive"}
	}

	byCost := make([]*dagmodel.DAGInstance, len(pareto))
	copy(byCost, pareto)
	sort.Slice(byCost, func(i, j int) bool { return byCost[i].RunningCost < byCost[j].RunningCost })

	byTime := make([]*dagmodel.DAGInstance, len(pareto))
	copy(byTime, pareto)
	sort.Slice(byTime, func(i, j int) bool { return byTime[i].RunningTime < byTime[j].RunningTime })

	clamped := maxSampleSize
	if clamped > len(pareto) {
		clamped = len(pareto)
	}
	if clamped < 1 {
		clamped = 1
	}

	return &Selector{byCost: byCost, byTime: byTime, maxSampleSize: clamped}, nil
}

// Sample returns up to n DAGInstances, each satisfying running_cost <=
// costSLO and running_time <= timeSLO, drawn uniformly without
// replacement via rng. The candidate set is the intersection of the
// cost-valid and time-valid prefixes of the two orderings — computed
// explicitly, not via positional arithmetic on the two distinct sorted
// lists (the source bug noted in spec.md section 9). An infeasible SLO
// (no instance satisfies both bounds) yields a nil result, an ordinary
// outcome rather than an error.
func (s *Selector) Sample(ctx context.Context, costSLO, timeSLO, n int, rng *rand.Rand) []*dagmodel.DAGInstance {
	ctx, span := tracer.Start(ctx, "sample.select", trace.WithAttributes(
		attribute.Int("sample.cost_slo", costSLO),
		attribute.Int("sample.time_slo", timeSLO),
		attribute.Int("sample.requested", n),
	))
	defer span.End()

	costCutoff := sort.Search(len(s.byCost), func(i int) bool { return s.byCost[i].RunningCost > costSLO })
	costOK := make(map[*dagmodel.DAGInstance]bool, costCutoff)
	for _, inst := range s.byCost[:costCutoff] {
		costOK[inst] = true
	}

	timeCutoff := sort.Search(len(s.byTime), func(i int) bool { return s.byTime[i].RunningTime > timeSLO })
	candidates := make([]*dagmodel.DAGInstance, 0, timeCutoff)
	for _, inst := range s.byTime[:timeCutoff] {
		if costOK[inst] {
			candidates = append(candidates, inst)
		}
	}

	size := n
	if size > s.maxSampleSize {
		size = s.maxSampleSize
	}
	if size > len(candidates) {
		size = len(candidates)
	}
	span.SetAttributes(attribute.Int("sample.candidates", len(candidates)), attribute.Int("sample.returned", size))
	if size <= 0 {
		return nil
	}

	pool := make([]*dagmodel.DAGInstance, len(candidates))
	copy(pool, candidates)
	for i := 0; i < size; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	returnedCounter, _ := meter.Int64Counter("planner_sample_returned_total")
	returnedCounter.Add(ctx, int64(size))
	return pool[:size]
}
