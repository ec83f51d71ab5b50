package dagmodel

// FunctionID is the canonical key used everywhere a function is referenced
// — by DAGs, DAGInstances, and Placements alike. Per spec.md section 9,
// the source's mix of function-object and function-id keys is collapsed
// onto this one dense key type.
type FunctionID string

// FunctionSpec is the caller-supplied description of one DAG function:
// its per-class runtime and memory demand. Edges are supplied separately,
// to NewDAG, rather than threaded through FunctionSpec — this keeps a
// FunctionSpec pure data and lets NewDAG be the single place that builds
// (and validates) prev/next adjacency.
type FunctionSpec struct {
	ID        FunctionID
	Runtime   map[ClassName]int
	MaxMemory map[ClassName]int
}

// Function is a validated FunctionSpec plus its resolved DAG adjacency.
// PrevFuncs and NextFuncs are kept sorted so iteration order — and
// therefore linearization and enumeration branching — is deterministic.
type Function struct {
	ID        FunctionID
	Runtime   map[ClassName]int
	MaxMemory map[ClassName]int
	PrevFuncs []FunctionID
	NextFuncs []FunctionID
}

// RuntimeOn returns the function's runtime on the given class and whether it
// was declared.
func (f *Function) RuntimeOn(class ClassName) (int, bool) {
	v, ok := f.Runtime[class]
	return v, ok
}

// MaxMemoryOn returns the function's memory demand on the given class and
// whether it was declared.
func (f *Function) MaxMemoryOn(class ClassName) (int, bool) {
	v, ok := f.MaxMemory[class]
	return v, ok
}

func validateFunctionSpec(spec FunctionSpec, classes *ClassTable) error {
	if spec.ID == "" {
		return &ConfigurationError{Subject: "function", Reason: "id must not be empty"}
	}
	for _, name := range sortedNames(classes.Names()) {
		runtime, hasRuntime := spec.Runtime[name]
		if !hasRuntime {
			return &ConfigurationError{Subject: string(spec.ID), Reason: "missing runtime for class " + string(name)}
		}
		if runtime <= 0 {
			return &ConfigurationError{Subject: string(spec.ID), Reason: "runtime for class " + string(name) + " must be positive"}
		}
		mem, hasMem := spec.MaxMemory[name]
		if !hasMem {
			return &ConfigurationError{Subject: string(spec.ID), Reason: "missing max_memory for class " + string(name)}
		}
		if mem < 0 {
			return &ConfigurationError{Subject: string(spec.ID), Reason: "max_memory for class " + string(name) + " must be non-negative"}
		}
		class, _ := classes.Get(name)
		if mem > class.NodeMemory {
			return &ConfigurationError{Subject: string(spec.ID), Reason: "max_memory for class " + string(name) + " exceeds node_memory"}
		}
	}
	return nil
}
