package dagmodel

import "testing"

func testClasses(t *testing.T) *ClassTable {
	t.Helper()
	classes, err := NewClassTable([]ResourceClass{
		{Name: "CPU", UnitCost: 1, NodeMemory: 100},
		{Name: "GPU", UnitCost: 3, NodeMemory: 20},
	})
	if err != nil {
		t.Fatalf("NewClassTable: %v", err)
	}
	return classes
}

func TestNewClassTableRejectsBadInput(t *testing.T) {
	if _, err := NewClassTable(nil); err == nil {
		t.Fatal("expected error for empty class table")
	}
	if _, err := NewClassTable([]ResourceClass{{Name: "CPU", UnitCost: 0, NodeMemory: 100}}); err == nil {
		t.Fatal("expected error for non-positive unit cost")
	}
	if _, err := NewClassTable([]ResourceClass{
		{Name: "CPU", UnitCost: 1, NodeMemory: 100},
		{Name: "CPU", UnitCost: 1, NodeMemory: 100},
	}); err == nil {
		t.Fatal("expected error for duplicate class name")
	}
}

func TestNewDAGSingleFunction(t *testing.T) {
	classes := testClasses(t)
	dag, err := NewDAG("single", []FunctionSpec{
		{ID: "f0", Runtime: map[ClassName]int{"CPU": 5, "GPU": 2}, MaxMemory: map[ClassName]int{"CPU": 10, "GPU": 10}},
	}, nil, classes)
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}
	if dag.Root != "f0" || dag.NumFuncs != 1 {
		t.Fatalf("unexpected dag: root=%s numFuncs=%d", dag.Root, dag.NumFuncs)
	}
}

func TestNewDAGRejectsMultipleRoots(t *testing.T) {
	classes := testClasses(t)
	spec := func(id FunctionID) FunctionSpec {
		return FunctionSpec{ID: id, Runtime: map[ClassName]int{"CPU": 1, "GPU": 1}, MaxMemory: map[ClassName]int{"CPU": 1, "GPU": 1}}
	}
	_, err := NewDAG("two-roots", []FunctionSpec{spec("a"), spec("b")}, nil, classes)
	if err == nil {
		t.Fatal("expected error for multiple roots")
	}
}

func TestNewDAGRejectsMemoryOverClassCapacity(t *testing.T) {
	classes := testClasses(t)
	_, err := NewDAG("oversized", []FunctionSpec{
		{ID: "f0", Runtime: map[ClassName]int{"CPU": 1, "GPU": 1}, MaxMemory: map[ClassName]int{"CPU": 1, "GPU": 999}},
	}, nil, classes)
	if err == nil {
		t.Fatal("expected configuration error for oversized memory demand")
	}
}

func TestDAGInstanceAssignAndClone(t *testing.T) {
	classes := testClasses(t)
	dag, err := NewDAG("linear", []FunctionSpec{
		{ID: "a", Runtime: map[ClassName]int{"CPU": 3, "GPU": 1}, MaxMemory: map[ClassName]int{"CPU": 10, "GPU": 10}},
		{ID: "b", Runtime: map[ClassName]int{"CPU": 3, "GPU": 1}, MaxMemory: map[ClassName]int{"CPU": 10, "GPU": 10}},
	}, []Edge{{From: "a", To: "b"}}, classes)
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}

	inst := NewDAGInstance(classes)
	a, _ := dag.Function("a")
	cpu, _ := classes.Get("CPU")
	inst.Assign(a, cpu)

	if inst.RunningTime != 3 || inst.RunningCost != 1 {
		t.Fatalf("after assigning a on CPU: time=%d cost=%d", inst.RunningTime, inst.RunningCost)
	}
	if _, pending := inst.PendingMaxArrival["a"]; pending {
		t.Fatal("a's own pending entry should be cleared")
	}
	if inst.PendingMaxArrival["b"] != 3 {
		t.Fatalf("b's pending_max_arrival should be 3, got %d", inst.PendingMaxArrival["b"])
	}

	clone := inst.Clone()
	b, _ := dag.Function("b")
	clone.Assign(b, cpu)

	if inst.RunningTime != 3 {
		t.Fatalf("mutating the clone must not affect the original, got running_time=%d", inst.RunningTime)
	}
	if clone.RunningTime != 6 {
		t.Fatalf("clone running_time want 6 got %d", clone.RunningTime)
	}
	if len(inst.PerClass["CPU"]) != 1 {
		t.Fatalf("original per-class list must be untouched by clone mutation, got %d entries", len(inst.PerClass["CPU"]))
	}
}

func TestClusterPoolCopyIsolatesCaller(t *testing.T) {
	classes := testClasses(t)
	cpu, _ := classes.Get("CPU")
	cluster, err := NewCluster(classes, []*Node{NewNode("n0", cpu)})
	if err != nil {
		t.Fatalf("NewCluster: %v", err)
	}
	pool := cluster.Pool("CPU")
	pool[0].AvailableMemory = 0

	if cluster.Pool("CPU")[0].AvailableMemory != 100 {
		t.Fatal("mutating a copy returned by Pool must not affect the cluster")
	}
}
