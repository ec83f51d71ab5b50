package dagmodel

// FunctionMemory pairs a function id with its memory demand under the
// class it was assigned to. It is the placer's work-list entry.
type FunctionMemory struct {
	ID     FunctionID
	Demand int
}

// DAGInstance is one complete function-to-resource-class assignment plus
// its derived aggregates: running_cost, running_time (makespan), the
// per-class placement work lists, and the in-flight pending_max_arrival
// bookkeeping the enumerator needs while it is still assigning functions.
//
// A DAGInstance is "live" (pending_max_arrival non-empty, assignment not
// yet dense) while the enumerator is still walking the linearized order,
// and terminal once every function has been assigned.
type DAGInstance struct {
	Assignment        map[FunctionID]ClassName
	PerClass          map[ClassName][]FunctionMemory
	PendingMaxArrival map[FunctionID]int
	RunningTime       int
	RunningCost       int
}

// NewDAGInstance returns an empty instance with a per-class bucket
// pre-seeded for every class in the table, matching the source's
// functions_per_resource initialisation in dag_generation.py.
func NewDAGInstance(classes *ClassTable) *DAGInstance {
	inst := &DAGInstance{
		Assignment:        make(map[FunctionID]ClassName),
		PerClass:          make(map[ClassName][]FunctionMemory, classes.Len()),
		PendingMaxArrival: make(map[FunctionID]int),
	}
	for _, name := range classes.Names() {
		inst.PerClass[name] = nil
	}
	return inst
}

// Clone returns a deep copy sharing no mutable state with the receiver.
// This replaces the source's buggy copy_dag_instance (spec.md section 9,
// which iterated int-keyed maps as (k, v) pairs) with an honest deep copy.
func (d *DAGInstance) Clone() *DAGInstance {
	cp := &DAGInstance{
		Assignment:        make(map[FunctionID]ClassName, len(d.Assignment)),
		PerClass:          make(map[ClassName][]FunctionMemory, len(d.PerClass)),
		PendingMaxArrival: make(map[FunctionID]int, len(d.PendingMaxArrival)),
		RunningTime:       d.RunningTime,
		RunningCost:       d.RunningCost,
	}
	for k, v := range d.Assignment {
		cp.Assignment[k] = v
	}
	for k, v := range d.PendingMaxArrival {
		cp.PendingMaxArrival[k] = v
	}
	for class, list := range d.PerClass {
		cloned := make([]FunctionMemory, len(list))
		copy(cloned, list)
		cp.PerClass[class] = cloned
	}
	return cp
}

// Assign records that f has been scheduled on class within this instance,
// implementing the six-step protocol of spec.md section 4.2: compute
// finish(f), propagate it to every successor's pending_max_arrival,
// advance running_time/running_cost, append to the class's work list, and
// clear f's own pending entry.
func (d *DAGInstance) Assign(f *Function, class ResourceClass) {
	runtime := f.Runtime[class.Name]
	finish := d.PendingMaxArrival[f.ID] + runtime // missing entry is the zero value, i.e. only the root

	for _, succ := range f.NextFuncs {
		if finish > d.PendingMaxArrival[succ] {
			d.PendingMaxArrival[succ] = finish
		}
	}

	if finish > d.RunningTime {
		d.RunningTime = finish
	}
	d.RunningCost += class.UnitCost
	d.Assignment[f.ID] = class.Name
	d.PerClass[class.Name] = append(d.PerClass[class.Name], FunctionMemory{ID: f.ID, Demand: f.MaxMemory[class.Name]})
	delete(d.PendingMaxArrival, f.ID)
}

// SortPerClassByMemoryDesc sorts every class's work list by decreasing
// memory demand, the first-fit-decreasing order the placer expects. Ties
// break by function id for determinism.
func (d *DAGInstance) SortPerClassByMemoryDesc() {
	for class, list := range d.PerClass {
		sortFunctionMemoryDesc(list)
		d.PerClass[class] = list
	}
}
