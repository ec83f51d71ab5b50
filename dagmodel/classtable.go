package dagmodel

import "sort"

// ClassName identifies a resource class kind, e.g. "CPU" or "GPU". The
// planner never hard-codes the set of classes — it is config, loaded by
// internal/config — but a ClassTable fixes the order classes are iterated
// in for a given planner run so enumeration branching stays deterministic.
type ClassName string

// ResourceClass is one row of the configuration surface described in
// spec.md section 3: a unit cost charged per function scheduled on the
// class, and the memory capacity every physical node of the class exposes.
type ResourceClass struct {
	Name       ClassName
	UnitCost   int
	NodeMemory int
}

// ClassTable is the ordered, validated set of resource classes a planner
// run operates over. Order is insertion order and is the order the
// enumerator branches in, so two ClassTables built from the same slice
// always branch identically.
type ClassTable struct {
	order   []ClassName
	classes map[ClassName]ResourceClass
}

// NewClassTable validates and builds a ClassTable. Each class needs a
// positive unit cost and a positive node memory; class names must be
// unique and non-empty. At least one class is required.
func NewClassTable(classes []ResourceClass) (*ClassTable, error) {
	if len(classes) == 0 {
		return nil, &ConfigurationError{Subject: "class table", Reason: "at least one resource class is required"}
	}
	t := &ClassTable{
		order:   make([]ClassName, 0, len(classes)),
		classes: make(map[ClassName]ResourceClass, len(classes)),
	}
	for _, c := range classes {
		if c.Name == "" {
			return nil, &ConfigurationError{Subject: "class table", Reason: "class name must not be empty"}
		}
		if _, dup := t.classes[c.Name]; dup {
			return nil, &ConfigurationError{Subject: string(c.Name), Reason: "duplicate resource class"}
		}
		if c.UnitCost <= 0 {
			return nil, &ConfigurationError{Subject: string(c.Name), Reason: "unit_cost must be positive"}
		}
		if c.NodeMemory <= 0 {
			return nil, &ConfigurationError{Subject: string(c.Name), Reason: "node_memory must be positive"}
		}
		t.order = append(t.order, c.Name)
		t.classes[c.Name] = c
	}
	return t, nil
}

// Classes returns the resource classes in canonical (insertion) order.
func (t *ClassTable) Classes() []ResourceClass {
	out := make([]ResourceClass, len(t.order))
	for i, name := range t.order {
		out[i] = t.classes[name]
	}
	return out
}

// Names returns the class names in canonical order.
func (t *ClassTable) Names() []ClassName {
	out := make([]ClassName, len(t.order))
	copy(out, t.order)
	return out
}

// Get looks up a class by name.
func (t *ClassTable) Get(name ClassName) (ResourceClass, bool) {
	c, ok := t.classes[name]
	return c, ok
}

// Len returns the number of resource classes.
func (t *ClassTable) Len() int { return len(t.order) }

// sortedNames returns a sorted copy, used wherever determinism needs a
// canonical order independent of ClassTable's own insertion order (e.g.
// validating a function's per-class maps).
func sortedNames(names []ClassName) []ClassName {
	out := make([]ClassName, len(names))
	copy(out, names)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
