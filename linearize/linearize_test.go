package linearize

import (
	"context"
	"testing"

	"github.com/swarmguard/admission-planner/dagmodel"
)

func classes(t *testing.T) *dagmodel.ClassTable {
	t.Helper()
	c, err := dagmodel.NewClassTable([]dagmodel.ResourceClass{
		{Name: "CPU", UnitCost: 1, NodeMemory: 100},
		{Name: "GPU", UnitCost: 3, NodeMemory: 20},
	})
	if err != nil {
		t.Fatalf("NewClassTable: %v", err)
	}
	return c
}

func spec(id dagmodel.FunctionID) dagmodel.FunctionSpec {
	return dagmodel.FunctionSpec{
		ID:        id,
		Runtime:   map[dagmodel.ClassName]int{"CPU": 1, "GPU": 1},
		MaxMemory: map[dagmodel.ClassName]int{"CPU": 1, "GPU": 1},
	}
}

func TestLinearizeOrdersPredecessorsFirst(t *testing.T) {
	c := classes(t)
	dag, err := dagmodel.NewDAG("diamond",
		[]dagmodel.FunctionSpec{spec("a"), spec("b"), spec("c"), spec("d")},
		[]dagmodel.Edge{{From: "a", To: "b"}, {From: "a", To: "c"}, {From: "b", To: "d"}, {From: "c", To: "d"}},
		c)
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}

	order, err := Linearize(context.Background(), dag)
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	if len(order) != dag.NumFuncs {
		t.Fatalf("want %d functions, got %d", dag.NumFuncs, len(order))
	}

	position := make(map[dagmodel.FunctionID]int, len(order))
	for i, f := range order {
		position[f.ID] = i
	}
	for _, f := range order {
		for _, prev := range f.PrevFuncs {
			if position[prev] >= position[f.ID] {
				t.Fatalf("predecessor %s did not come before %s", prev, f.ID)
			}
		}
	}
}

func TestLinearizeIsDeterministic(t *testing.T) {
	c := classes(t)
	dag, err := dagmodel.NewDAG("fanout",
		[]dagmodel.FunctionSpec{spec("a"), spec("b"), spec("c"), spec("d")},
		[]dagmodel.Edge{{From: "a", To: "d"}, {From: "a", To: "c"}, {From: "a", To: "b"}},
		c)
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}

	first, err := Linearize(context.Background(), dag)
	if err != nil {
		t.Fatalf("Linearize: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Linearize(context.Background(), dag)
		if err != nil {
			t.Fatalf("Linearize: %v", err)
		}
		for j := range first {
			if first[j].ID != again[j].ID {
				t.Fatalf("linearization is not deterministic across calls")
			}
		}
	}
	// Ties broken by ascending id: b, c, d after a.
	want := []dagmodel.FunctionID{"a", "b", "c", "d"}
	for i, id := range want {
		if first[i].ID != id {
			t.Fatalf("position %d: want %s got %s", i, id, first[i].ID)
		}
	}
}

func TestLinearizeDetectsCycle(t *testing.T) {
	c := classes(t)
	dag, err := dagmodel.NewDAG("cycle-not-reachable",
		[]dagmodel.FunctionSpec{spec("root"), spec("a"), spec("b")},
		[]dagmodel.Edge{{From: "root", To: "a"}, {From: "a", To: "b"}, {From: "b", To: "a"}},
		c)
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}
	if _, err := Linearize(context.Background(), dag); err == nil {
		t.Fatal("expected MalformedDAG error for a<->b cycle")
	}
}
