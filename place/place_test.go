package place

import (
	"context"
	"testing"

	"github.com/swarmguard/admission-planner/dagmodel"
)

func testClasses(t *testing.T) *dagmodel.ClassTable {
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

func allCPUInstance(classes *dagmodel.ClassTable, demands map[dagmodel.FunctionID]int) *dagmodel.DAGInstance {
	inst := dagmodel.NewDAGInstance(classes)
	for id, demand := range demands {
		inst.Assignment[id] = "CPU"
		inst.PerClass["CPU"] = append(inst.PerClass["CPU"], dagmodel.FunctionMemory{ID: id, Demand: demand})
	}
	inst.SortPerClassByMemoryDesc()
	return inst
}

func TestPlaceSucceedsOnSufficientCapacity(t *testing.T) {
	classes := testClasses(t)
	cpu, _ := classes.Get("CPU")
	cluster, err := dagmodel.NewCluster(classes, []*dagmodel.Node{dagmodel.NewNode("n0", cpu)})
	if err != nil {
		t.Fatalf("NewCluster: %v", err)
	}

	inst := allCPUInstance(classes, map[dagmodel.FunctionID]int{"a": 10, "b": 10, "c": 10})
	placement := Place(context.Background(), cluster, inst)
	if len(placement) != 3 {
		t.Fatalf("want 3 functions placed, got %d", len(placement))
	}
	for _, n := range cluster.Pool("CPU") {
		if n.AvailableMemory != 70 {
			t.Fatalf("want final available memory 70, got %d", n.AvailableMemory)
		}
	}
}

func TestPlaceFailsWithoutMatchingClassNodes(t *testing.T) {
	classes := testClasses(t)
	cpu, _ := classes.Get("CPU")
	cluster, err := dagmodel.NewCluster(classes, []*dagmodel.Node{dagmodel.NewNode("n0", cpu)})
	if err != nil {
		t.Fatalf("NewCluster: %v", err)
	}

	inst := dagmodel.NewDAGInstance(classes)
	inst.Assignment["a"] = "GPU"
	inst.PerClass["GPU"] = append(inst.PerClass["GPU"], dagmodel.FunctionMemory{ID: "a", Demand: 5})

	placement := Place(context.Background(), cluster, inst)
	if len(placement) != 0 {
		t.Fatalf("want placement to fail with no GPU nodes, got %v", placement)
	}
}

func TestPlaceRollsBackClusterOnFailure(t *testing.T) {
	classes := testClasses(t)
	cpu, _ := classes.Get("CPU")
	cluster, err := dagmodel.NewCluster(classes, []*dagmodel.Node{dagmodel.NewNode("n0", cpu)})
	if err != nil {
		t.Fatalf("NewCluster: %v", err)
	}
	before := cluster.Snapshot()

	inst := allCPUInstance(classes, map[dagmodel.FunctionID]int{"a": 60, "b": 60})
	placement := Place(context.Background(), cluster, inst)
	if len(placement) != 0 {
		t.Fatalf("want placement to fail (120 demand on 100 memory node), got %v", placement)
	}
	if !cluster.Equal(before) {
		t.Fatal("cluster must be byte-identical after a failed placement")
	}
}

func TestPlaceIsAllOrNothingAcrossClasses(t *testing.T) {
	classes := testClasses(t)
	cpu, _ := classes.Get("CPU")
	gpu, _ := classes.Get("GPU")
	cluster, err := dagmodel.NewCluster(classes, []*dagmodel.Node{
		dagmodel.NewNode("cpu0", cpu),
		dagmodel.NewNode("gpu0", gpu),
	})
	if err != nil {
		t.Fatalf("NewCluster: %v", err)
	}
	before := cluster.Snapshot()

	inst := dagmodel.NewDAGInstance(classes)
	inst.Assignment["a"] = "CPU"
	inst.PerClass["CPU"] = []dagmodel.FunctionMemory{{ID: "a", Demand: 10}}
	inst.Assignment["b"] = "GPU"
	inst.PerClass["GPU"] = []dagmodel.FunctionMemory{{ID: "b", Demand: 999}} // exceeds GPU node memory

	placement := Place(context.Background(), cluster, inst)
	if len(placement) != 0 {
		t.Fatalf("want whole placement to fail when any class is exhausted, got %v", placement)
	}
	if !cluster.Equal(before) {
		t.Fatal("CPU pool must not be committed when the GPU class fails")
	}
}
