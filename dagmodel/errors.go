// Package dagmodel defines the planner's core domain types: resource
// classes, functions, DAGs, the cluster inventory, and the per-assignment
// DAGInstance the enumerator produces.
package dagmodel

import (
	"errors"
	"fmt"
)

// ErrMalformedDAG is the sentinel a caller can match with errors.Is against
// any error returned while building or linearizing a DAG.
var ErrMalformedDAG = errors.New("malformed dag")

// ErrConfiguration is the sentinel for invalid resource-class or
// function configuration, fatal to the whole planner call.
var ErrConfiguration = errors.New("invalid configuration")

// MalformedDAGError reports a cycle, an orphan function, multiple roots, or
// a num_funcs mismatch detected while building or linearizing a DAG.
type MalformedDAGError struct {
	DAGID  string
	Reason string
}

func (e *MalformedDAGError) Error() string {
	return fmt.Sprintf("dag %q: %s", e.DAGID, e.Reason)
}

func (e *MalformedDAGError) Unwrap() error { return ErrMalformedDAG }

// ConfigurationError reports a function that declares memory demand
// exceeding its class's node_memory, a missing runtime/memory entry for a
// class, or a non-positive sample_size.
type ConfigurationError struct {
	Subject string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
