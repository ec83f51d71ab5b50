package dagmodel

import "sort"

// Cluster is the inventory of physical nodes, grouped by resource class.
// It is the only mutable shared state in the planner (spec.md section 5):
// callers must not place onto the same Cluster concurrently. Each class's
// pool is kept sorted ascending by AvailableMemory, the invariant the
// placer's first-fit scan over an ascending pool relies on.
type Cluster struct {
	classes *ClassTable
	pools   map[ClassName][]*Node
}

// NewCluster validates that every node names a known class and that node
// ids are unique across the whole cluster, then builds per-class pools
// sorted ascending by available memory.
func NewCluster(classes *ClassTable, nodes []*Node) (*Cluster, error) {
	seen := make(map[NodeID]bool, len(nodes))
	pools := make(map[ClassName][]*Node, classes.Len())
	for _, name := range classes.Names() {
		pools[name] = nil
	}
	for _, n := range nodes {
		if _, ok := classes.Get(n.Class); !ok {
			return nil, &ConfigurationError{Subject: string(n.ID), Reason: "unknown resource class " + string(n.Class)}
		}
		if seen[n.ID] {
			return nil, &ConfigurationError{Subject: string(n.ID), Reason: "duplicate node id"}
		}
		seen[n.ID] = true
		pools[n.Class] = append(pools[n.Class], n.clone())
	}
	for name := range pools {
		sortPoolByMemory(pools[name])
	}
	return &Cluster{classes: classes, pools: pools}, nil
}

func sortPoolByMemory(pool []*Node) {
	sort.Slice(pool, func(i, j int) bool { return pool[i].AvailableMemory < pool[j].AvailableMemory })
}

// ClassTable returns the cluster's resource-class table.
func (c *Cluster) ClassTable() *ClassTable { return c.classes }

// Pool returns a deep copy of the node pool for a class, sorted ascending
// by available memory. Callers (the placer) mutate the copy freely and
// commit it back with CommitPools only once a whole placement succeeds —
// this is what gives placement its all-or-nothing rollback semantics
// without ever touching the live cluster on a failed attempt.
func (c *Cluster) Pool(class ClassName) []*Node {
	src := c.pools[class]
	out := make([]*Node, len(src))
	for i, n := range src {
		out[i] = n.clone()
	}
	return out
}

// CommitPools atomically replaces the pools for the given classes. Pools
// not present in the map are left untouched — this is the fix for the
// source bug noted in spec.md section 9, where assigning the whole
// nodes_by_res dict to one class's sorted list corrupted every other
// class's pool.
func (c *Cluster) CommitPools(pools map[ClassName][]*Node) {
	for class, nodes := range pools {
		cloned := make([]*Node, len(nodes))
		for i, n := range nodes {
			cloned[i] = n.clone()
		}
		sortPoolByMemory(cloned)
		c.pools[class] = cloned
	}
}

// Snapshot returns an independent deep copy of the cluster, sharing no
// mutable state with the original. Used by tests asserting rollback
// left the cluster byte-identical, and available to callers that want to
// place candidate instances against independent copies before committing
// a winner (spec.md section 5).
func (c *Cluster) Snapshot() *Cluster {
	pools := make(map[ClassName][]*Node, len(c.pools))
	for class, nodes := range c.pools {
		cp := make([]*Node, len(nodes))
		for i, n := range nodes {
			cp[i] = n.clone()
		}
		pools[class] = cp
	}
	return &Cluster{classes: c.classes, pools: pools}
}

// Equal reports whether two clusters hold identical node state, used by
// tests to assert a failed placement left the cluster unchanged.
func (c *Cluster) Equal(other *Cluster) bool {
	if len(c.pools) != len(other.pools) {
		return false
	}
	for class, nodes := range c.pools {
		o := other.pools[class]
		if len(nodes) != len(o) {
			return false
		}
		for i, n := range nodes {
			if n.ID != o[i].ID || n.Class != o[i].Class || n.AvailableMemory != o[i].AvailableMemory {
				return false
			}
		}
	}
	return true
}
