package dagmodel

import "sort"

// Edge is a directed dependency From → To: To must run after From.
type Edge struct {
	From FunctionID
	To   FunctionID
}

// DAG is a validated, immutable directed acyclic graph of functions over a
// fixed ClassTable. NumFuncs is the count linearize must reproduce exactly;
// a mismatch there signals an unreachable function or a cycle the
// constructor alone cannot detect.
type DAG struct {
	ID        string
	Root      FunctionID
	NumFuncs  int
	classes   *ClassTable
	functions map[FunctionID]*Function
}

// NewDAG validates specs and edges and builds a DAG. It requires exactly
// one function with no incoming edges (the root) and rejects duplicate
// ids, self-edges, and edges referencing unknown functions. It does not by
// itself detect cycles among non-root functions — Linearize does, via the
// num_funcs invariant — since a structural-only check here would have to
// duplicate that traversal.
func NewDAG(id string, specs []FunctionSpec, edges []Edge, classes *ClassTable) (*DAG, error) {
	if len(specs) == 0 {
		return nil, &MalformedDAGError{DAGID: id, Reason: "dag has no functions"}
	}
	functions := make(map[FunctionID]*Function, len(specs))
	for _, spec := range specs {
		if err := validateFunctionSpec(spec, classes); err != nil {
			return nil, err
		}
		if _, dup := functions[spec.ID]; dup {
			return nil, &MalformedDAGError{DAGID: id, Reason: "duplicate function id " + string(spec.ID)}
		}
		functions[spec.ID] = &Function{
			ID:        spec.ID,
			Runtime:   spec.Runtime,
			MaxMemory: spec.MaxMemory,
		}
	}

	incoming := make(map[FunctionID]int, len(functions))
	for _, e := range edges {
		if e.From == e.To {
			return nil, &MalformedDAGError{DAGID: id, Reason: "self edge on function " + string(e.From)}
		}
		from, ok := functions[e.From]
		if !ok {
			return nil, &MalformedDAGError{DAGID: id, Reason: "edge references unknown function " + string(e.From)}
		}
		to, ok := functions[e.To]
		if !ok {
			return nil, &MalformedDAGError{DAGID: id, Reason: "edge references unknown function " + string(e.To)}
		}
		from.NextFuncs = append(from.NextFuncs, to.ID)
		to.PrevFuncs = append(to.PrevFuncs, from.ID)
		incoming[to.ID]++
	}

	for _, f := range functions {
		sort.Slice(f.NextFuncs, func(i, j int) bool { return f.NextFuncs[i] < f.NextFuncs[j] })
		sort.Slice(f.PrevFuncs, func(i, j int) bool { return f.PrevFuncs[i] < f.PrevFuncs[j] })
	}

	var roots []FunctionID
	for fid := range functions {
		if incoming[fid] == 0 {
			roots = append(roots, fid)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	if len(roots) == 0 {
		return nil, &MalformedDAGError{DAGID: id, Reason: "no root: every function has an incoming edge"}
	}
	if len(roots) > 1 {
		return nil, &MalformedDAGError{DAGID: id, Reason: "multiple roots found"}
	}

	return &DAG{
		ID:        id,
		Root:      roots[0],
		NumFuncs:  len(specs),
		classes:   classes,
		functions: functions,
	}, nil
}

// Classes returns the resource-class table this DAG was validated against.
func (d *DAG) Classes() *ClassTable { return d.classes }

// Function looks up a function by id.
func (d *DAG) Function(id FunctionID) (*Function, bool) {
	f, ok := d.functions[id]
	return f, ok
}

// FunctionIDs returns every function id in the DAG, sorted, for callers
// that need a deterministic full listing (e.g. validating a DAGInstance's
// assignment is dense).
func (d *DAG) FunctionIDs() []FunctionID {
	ids := make([]FunctionID, 0, len(d.functions))
	for id := range d.functions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
